package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// readyTimeout bounds all dependency pings of one /readyz call.
const readyTimeout = 3 * time.Second

// HealthChecker is implemented by the goal stores and the Redis cache.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency is a component reported by /readyz.
// A nil Checker means the component is not configured; that only fails
// readiness when the component is required.
type Dependency struct {
	Name     string
	Checker  HealthChecker
	Optional bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	deps   []Dependency
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler reporting on deps in order.
func NewHealthHandler(logger *slog.Logger, deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, logger: logger}
}

// Healthz answers 200 while the process is serving.
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz answers 200 only when every required dependency responds.
// Failure details are logged, never returned.
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.deps))}
	for _, dep := range h.deps {
		state := h.check(ctx, dep)
		resp.Checks[dep.Name] = state
		if state == "ok" || (dep.Optional && state == "disabled") {
			continue
		}
		resp.Status = "unhealthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (h *HealthHandler) check(ctx context.Context, dep Dependency) string {
	if dep.Checker == nil {
		return "disabled"
	}
	if err := dep.Checker.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed",
			slog.String("dependency", dep.Name),
			slog.String("error", err.Error()),
		)
		return "unavailable"
	}
	return "ok"
}
