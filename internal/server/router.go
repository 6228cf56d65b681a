package server

import (
	"log/slog"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goaltracker/goaltracker/internal/config"
	"github.com/goaltracker/goaltracker/internal/handler"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/middleware"
	"github.com/goaltracker/goaltracker/internal/service"
)

// Deps holds everything the router needs.
// Cache and Limiter are nil interfaces when Redis is not configured.
// TrustedProxies lists the peers allowed to set forwarding headers.
type Deps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Users      *service.UserService
	Goals      *service.GoalService
	Authorizer middleware.Resolver
	Limiter    middleware.LoginLimiter
	Metrics    metrics.Recorder
	DB         handler.HealthChecker
	Cache      handler.HealthChecker

	TrustedProxies []netip.Prefix
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(d Deps) *chi.Mux {
	cfg := d.Config
	logger := d.Logger
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoop()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(logger,
		handler.Dependency{Name: "database", Checker: d.DB},
		handler.Dependency{Name: "redis", Checker: d.Cache, Optional: true},
	)
	metricsHandler := handler.NewMetricsHandler(d.Metrics)
	authHandler := handler.NewAuthHandler(d.Users, cfg.TokenTTL, logger)
	goalHandler := handler.NewGoalHandler(d.Goals, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.ClientIP(d.TrustedProxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Instrument(logger, d.Metrics))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{HSTS: cfg.IsProduction()}))
	r.Use(middleware.CORS(middleware.CORSConfig{
		Origins: cfg.GetCORSAllowedOrigins(),
		MaxAge:  24 * time.Hour,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Root)

	requireUser := middleware.Auth(middleware.AuthConfig{
		Logger:   logger,
		Resolver: d.Authorizer,
	})

	loginLimit := middleware.RateLimitLogin(middleware.RateLimitConfig{
		Logger:    logger,
		Limiter:   d.Limiter,
		Metrics:   d.Metrics,
		Enabled:   cfg.LoginRateLimitEnabled,
		PerMinute: cfg.LoginRateLimitPerMinute,
		Burst:     cfg.LoginRateLimitBurst,
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.With(loginLimit).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", authHandler.Me)
			r.Delete("/me", authHandler.DeleteMe)
		})
	})

	// Mounting at /goals serves both /goals and /goals/.
	r.Route("/goals", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/", goalHandler.List)
		r.Post("/", goalHandler.Create)
		r.Get("/{id}", goalHandler.Get)
		r.Put("/{id}", goalHandler.Update)
		r.Delete("/{id}", goalHandler.Delete)
		r.Post("/{id}/time", goalHandler.LogTime)
		r.Get("/{id}/time", goalHandler.ListTime)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
