package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/goaltracker/goaltracker/internal/model"
)

// CreateGoalRequest represents the request body for creating a goal.
type CreateGoalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateGoalRequest represents a partial goal update. Absent fields are unchanged.
type UpdateGoalRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// LogTimeRequest represents the request body for logging time against a goal.
type LogTimeRequest struct {
	Minutes int     `json:"minutes"`
	Note    *string `json:"note,omitempty"`
}

// TimeEntryResponse represents a time entry in API responses.
type TimeEntryResponse struct {
	ID        string    `json:"id"`
	Minutes   int       `json:"minutes"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// GoalResponse represents a goal with its entries and derived total.
type GoalResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	TotalMinutes int                 `json:"total_minutes"`
	TimeEntries  []TimeEntryResponse `json:"time_entries"`
}

// ToTimeEntryResponse converts a model.TimeEntry to TimeEntryResponse.
func ToTimeEntryResponse(entry model.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:        entry.ID,
		Minutes:   entry.Minutes,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}

// ToTimeEntryResponses converts entries, always returning a non-nil slice.
func ToTimeEntryResponses(entries []model.TimeEntry) []TimeEntryResponse {
	out := lo.Map(entries, func(e model.TimeEntry, _ int) TimeEntryResponse {
		return ToTimeEntryResponse(e)
	})
	if out == nil {
		out = []TimeEntryResponse{}
	}
	return out
}

// ToGoalResponse converts a model.Goal to GoalResponse.
// TotalMinutes is computed from the loaded entries.
func ToGoalResponse(goal *model.Goal) GoalResponse {
	return GoalResponse{
		ID:           goal.ID,
		Title:        goal.Title,
		Description:  goal.Description,
		CreatedAt:    goal.CreatedAt,
		UpdatedAt:    goal.UpdatedAt,
		TotalMinutes: goal.TotalMinutes(),
		TimeEntries:  ToTimeEntryResponses(goal.TimeEntries),
	}
}

// ToGoalResponses converts goals preserving order.
func ToGoalResponses(goals []*model.Goal) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, ToGoalResponse(g))
	}
	return out
}
