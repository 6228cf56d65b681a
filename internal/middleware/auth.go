package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/service"
)

// Resolver maps a bearer token to its user. Implemented by service.Authorizer.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver Resolver
}

// Auth returns a middleware that authenticates requests with a bearer token
// and injects the resolved user into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token", "")
				writeAuthError(w)
				return
			}

			user, err := cfg.Resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					logAuthFailure(cfg.Logger, r, authFailureReason(err), auth.QuickHash(token))
					writeAuthError(w)
					return
				}
				cfg.Logger.Error("user lookup failed during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func extractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, service.ErrUserNotFound):
		return "unknown_user"
	default:
		return "unauthorized"
	}
}

// logAuthFailure never logs the token itself, only a short fingerprint.
func logAuthFailure(logger *slog.Logger, r *http.Request, reason, fingerprint string) {
	attrs := []any{
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	}
	if fingerprint != "" {
		attrs = append(attrs, slog.String("token_fingerprint", fingerprint))
	}
	logger.Warn("authentication failed", attrs...)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials")
}
