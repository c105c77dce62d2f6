package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains session token and password hashing settings.
type AuthConfig struct {
	TokenSecret          string `mapstructure:"token_secret"           validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// argon2id cost parameters
	Argon2MemoryKiB   uint32 `mapstructure:"argon2_memory_kib"  validate:"gte=8192"`
	Argon2Iterations  uint32 `mapstructure:"argon2_iterations"  validate:"gte=1"`
	Argon2Parallelism uint8  `mapstructure:"argon2_parallelism" validate:"gte=1"`
}

// RateLimitConfig controls the Redis-backed limiter on public endpoints.
// An empty RedisAddr disables rate limiting.
type RateLimitConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"     validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"       validate:"gte=0"`
	Requests      int    `mapstructure:"requests"       validate:"gt=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gt=0"`
}
