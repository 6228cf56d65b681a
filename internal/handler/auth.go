package handler

import (
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/handler/dto"
	"github.com/goaltracker/goaltracker/internal/service"
)

// AuthHandler handles account and login requests.
type AuthHandler struct {
	users    *service.UserService
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokenTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, "INVALID_JSON")
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /auth/login.
// Credentials arrive as form fields username and password, or as the
// equivalent JSON object when the body is application/json.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := readLoginCredentials(r)
	if err != nil {
		writeDecodeError(w, err, "INVALID_BODY")
		return
	}
	if username == "" || password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:  "username and password are required",
			Code:   "VALIDATION_FAILED",
			Fields: missingLoginFields(username, password),
		})
		return
	}

	token, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// DeleteMe handles DELETE /auth/me. The account's goals and entries go with it.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	if err := h.users.Delete(r.Context(), user); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", user.ID)

	w.WriteHeader(http.StatusNoContent)
}

func readLoginCredentials(r *http.Request) (username, password string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req dto.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", "", err
		}
		return req.Username, req.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	return r.PostForm.Get("username"), r.PostForm.Get("password"), nil
}

func missingLoginFields(username, password string) map[string]string {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "field required"
	}
	if password == "" {
		fields["password"] = "field required"
	}
	return fields
}
