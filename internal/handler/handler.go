// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goaltracker/goaltracker/internal/handler/dto"
	"github.com/goaltracker/goaltracker/internal/service"
)

// Handler serves the unauthenticated informational routes.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Root reports that the API is up.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Goals Tracker API is running"})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response in the standard envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message, Code: code})
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDecodeError reports an unreadable body. A body cut off by the size
// limit is 413; anything else is 400 with badCode.
func writeDecodeError(w http.ResponseWriter, err error, badCode string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, badCode, "Invalid request body")
}

// writeServiceError maps service errors to HTTP responses.
// Unknown errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		code := "VALIDATION_FAILED"
		if errors.Is(verr.Err, service.ErrInvalidMinutes) || errors.Is(verr.Err, service.ErrMinutesTooLarge) {
			code = "INVALID_MINUTES"
		}
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:  verr.Error(),
			Code:   code,
			Fields: map[string]string{verr.Field: verr.Err.Error()},
		})
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect email or password")
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrUserNotFound):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials")
	case errors.Is(err, service.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "GOAL_NOT_FOUND", "Goal not found")
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
