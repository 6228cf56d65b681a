package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/goaltracker/goaltracker/internal/cache"
	"github.com/goaltracker/goaltracker/internal/metrics"
)

// LoginLimiter consumes login attempts. Implemented by cache.Cache.
type LoginLimiter interface {
	CheckLoginRateLimit(ctx context.Context, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for login rate limiting.
type RateLimitConfig struct {
	Logger    *slog.Logger
	Limiter   LoginLimiter
	Metrics   metrics.Recorder
	Enabled   bool
	PerMinute int
	Burst     int
}

// RateLimitLogin returns middleware that throttles login attempts per client IP.
// It is a pass-through when disabled or when no limiter is configured.
func RateLimitLogin(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.Limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			result, err := cfg.Limiter.CheckLoginRateLimit(r.Context(), ip, cfg.PerMinute, cfg.Burst)
			if err != nil {
				cfg.Logger.Error("login rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, cfg.PerMinute, result.Remaining, result.ResetAt)

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", "login"),
					slog.String("ip", ip),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Metrics.IncLoginAttempt(metrics.LoginRateLimited)

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
					"Too many login attempts. Retry after "+strconv.Itoa(int(result.RetryAfter.Seconds()))+" seconds.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	}
}
