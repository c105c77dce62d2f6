package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apiMiddleware "github.com/phrazzld/tasker-api/internal/api/middleware"
	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
	"github.com/phrazzld/tasker-api/internal/redact"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Credentials and sessions
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer

	// Services
	userService service.UserService
	taskService service.TaskService

	// HTTP instrumentation
	registry    *prometheus.Registry
	metrics     *apiMiddleware.Metrics
	rateLimiter *apiMiddleware.RateLimiter
}

// newApplication wires every dependency on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokens, err = auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	logger.Info("Session token issuer initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.hasher = auth.NewArgon2Hasher(auth.Argon2ParamsFromConfig(cfg.Auth))

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.userService = service.NewUserService(app.userStore, app.hasher, app.tokens, db, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	app.registry = newMetricsRegistry()
	app.metrics = apiMiddleware.NewMetrics(app.registry)

	app.redis = setupRedis(ctx, cfg.RateLimit, logger)
	var counter apiMiddleware.WindowCounter
	if app.redis != nil {
		counter = apiMiddleware.NewRedisCounter(app.redis)
	}
	app.rateLimiter = apiMiddleware.NewRateLimiter(
		counter,
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		app.metrics,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// newMetricsRegistry returns a registry with the Go runtime and process
// collectors already registered.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// setupRedis connects to the rate limit store. It returns nil when Redis is
// not configured or unreachable, which leaves rate limiting disabled.
func setupRedis(ctx context.Context, cfg config.RateLimitConfig, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("Rate limiting disabled: no Redis address configured")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Rate limiting disabled: Redis unreachable", "error", redact.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("Rate limiter connected to Redis",
		"requests", cfg.Requests,
		"window_seconds", cfg.WindowSeconds)
	return client
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing Redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
