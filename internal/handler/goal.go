package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/handler/dto"
	"github.com/goaltracker/goaltracker/internal/service"
)

// GoalHandler handles HTTP requests for goals and their time entries.
// Every route runs behind the auth middleware.
type GoalHandler struct {
	svc    *service.GoalService
	logger *slog.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(svc *service.GoalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /goals/.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	goals, err := h.svc.ListGoals(r.Context(), owner)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToGoalResponses(goals))
}

// Create handles POST /goals/.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	var req dto.CreateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, "INVALID_JSON")
		return
	}

	goal, err := h.svc.CreateGoal(r.Context(), owner, service.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("goal_created", "goal_id", goal.ID, "user_id", owner.ID)

	writeJSON(w, http.StatusCreated, dto.ToGoalResponse(goal))
}

// Get handles GET /goals/{id}.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	goal, err := h.svc.GetGoal(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToGoalResponse(goal))
}

// Update handles PUT /goals/{id}.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, "INVALID_JSON")
		return
	}

	goal, err := h.svc.UpdateGoal(r.Context(), owner, id, service.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("goal_updated", "goal_id", goal.ID, "user_id", owner.ID)

	writeJSON(w, http.StatusOK, dto.ToGoalResponse(goal))
}

// Delete handles DELETE /goals/{id}.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteGoal(r.Context(), owner, id); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("goal_deleted", "goal_id", id, "user_id", owner.ID)

	w.WriteHeader(http.StatusNoContent)
}

// LogTime handles POST /goals/{id}/time and returns the refreshed goal.
func (h *GoalHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.LogTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, "INVALID_JSON")
		return
	}

	goal, err := h.svc.LogTime(r.Context(), owner, id, service.LogTimeInput{
		Minutes: req.Minutes,
		Note:    req.Note,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	h.logger.Info("time_logged", "goal_id", goal.ID, "minutes", req.Minutes)

	writeJSON(w, http.StatusCreated, dto.ToGoalResponse(goal))
}

// ListTime handles GET /goals/{id}/time.
func (h *GoalHandler) ListTime(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	entries, err := h.svc.ListTimeEntries(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTimeEntryResponses(entries))
}
