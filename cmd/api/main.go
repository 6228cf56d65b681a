// Package main is the entrypoint for the Goals Tracker API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/cache"
	"github.com/goaltracker/goaltracker/internal/config"
	"github.com/goaltracker/goaltracker/internal/handler"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/repository"
	"github.com/goaltracker/goaltracker/internal/repository/sqlite"
	"github.com/goaltracker/goaltracker/internal/server"
	"github.com/goaltracker/goaltracker/internal/service"
)

// store is satisfied by both the PostgreSQL repository and the SQLite store.
type store interface {
	service.UserStore
	service.GoalStore
	handler.HealthChecker
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, closeDB, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		closeDB()
		return err
	}

	deps := server.Deps{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics.NewPrometheus(),
		DB:             db,
		TrustedProxies: trusted,
	}

	// Redis is optional; without it there is no user cache and no login throttling.
	var userCache service.UserCache
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			closeDB()
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return fmt.Errorf("connect to redis: %s", sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis")
		userCache = cacheClient
		deps.Cache = cacheClient
		deps.Limiter = cacheClient
	} else {
		logger.Warn("REDIS_URL not set; user cache and login rate limiting disabled")
	}

	creds, err := auth.NewCredentials(auth.CredentialsConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		closeDB()
		return fmt.Errorf("init credentials: %w", err)
	}

	// Initialize services
	deps.Users, err = service.NewUserService(db, creds, userCache, deps.Metrics)
	if err != nil {
		closeDB()
		return err
	}
	deps.Goals = service.NewGoalService(db, deps.Metrics)
	deps.Authorizer = service.NewAuthorizer(creds, db, userCache, deps.Metrics)

	srv := server.New(server.NewRouter(deps), cfg, logger)
	srv.OnShutdown("database", func(context.Context) error {
		closeDB()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", storeKind(cfg),
	)

	return srv.Run(ctx)
}

// openStore connects to SQLite or PostgreSQL depending on DATABASE_URL.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, func(), error) {
	if cfg.UsesSQLite() {
		s, err := sqlite.Open(config.SQLitePath(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("opened SQLite database", slog.String("path", config.SQLitePath(cfg.DatabaseURL)))
		return s, func() { _ = s.Close() }, nil
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return nil, nil, fmt.Errorf("connect to database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		applied, err := repo.Migrate(ctx)
		if err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database migrated", slog.Any("applied", applied))
	}

	return repo, repo.Close, nil
}

func storeKind(cfg *config.Config) string {
	if cfg.UsesSQLite() {
		return "sqlite"
	}
	return "postgres"
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces any secret URLs in err with their redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
