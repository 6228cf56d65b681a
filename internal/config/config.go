// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// MinJWTSecretLength is the minimum accepted signing secret size in bytes.
const MinJWTSecretLength = 32

// ErrWeakJWTSecret indicates JWT_SECRET is shorter than MinJWTSecretLength.
var ErrWeakJWTSecret = errors.New("JWT_SECRET must be at least 32 bytes")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8000"`

	// Database: postgres://... selects PostgreSQL, sqlite:<path> or :memory: selects SQLite.
	DatabaseURL string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Cache (Redis). Optional; empty disables user caching and login rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Token signing
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"goaltracker"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Login rate limiting (per client IP)
	LoginRateLimitEnabled   bool `env:"LOGIN_RATE_LIMIT_ENABLED" envDefault:"true"`
	LoginRateLimitPerMinute int  `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	LoginRateLimitBurst     int  `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins, or "*" for any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed, as CIDRs
	// or single addresses. Empty means the TCP peer is always the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
// Production responses carry HSTS.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesSQLite reports whether DatabaseURL points at a SQLite database.
func (c *Config) UsesSQLite() bool {
	return IsSQLiteURL(c.DatabaseURL)
}

// IsSQLiteURL reports whether a database URL addresses SQLite rather than PostgreSQL.
func IsSQLiteURL(raw string) bool {
	return raw == ":memory:" ||
		strings.HasPrefix(raw, "sqlite:") ||
		strings.HasPrefix(raw, "file:")
}

// SQLitePath strips the sqlite: scheme from a SQLite database URL.
func SQLitePath(raw string) string {
	path := strings.TrimPrefix(raw, "sqlite://")
	return strings.TrimPrefix(path, "sqlite:")
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Validate checks constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return ErrWeakJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.LoginRateLimitEnabled && (c.LoginRateLimitPerMinute <= 0 || c.LoginRateLimitBurst <= 0) {
		return errors.New("login rate limit values must be positive")
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
