package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. TASKER_DATABASE_URL for database.url.
const EnvPrefix = "TASKER"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory, when present, is loaded first.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 24*60)
	v.SetDefault("auth.argon2_memory_kib", 64*1024)
	v.SetDefault("auth.argon2_iterations", 1)
	v.SetDefault("auth.argon2_parallelism", 4)

	v.SetDefault("rate_limit.redis_db", 0)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)
}

// bindEnvs registers keys that have no default so AutomaticEnv picks them up
// during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"database.url",
		"auth.token_secret",
		"rate_limit.redis_addr",
		"rate_limit.redis_password",
	} {
		_ = v.BindEnv(key)
	}
}
