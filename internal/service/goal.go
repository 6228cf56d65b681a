package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository"
)

// GoalService handles goal and time entry business logic.
// Every operation is scoped to the owner passed in.
type GoalService struct {
	store   GoalStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewGoalService creates a new GoalService.
func NewGoalService(store GoalStore, recorder metrics.Recorder) *GoalService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &GoalService{
		store:   store,
		metrics: recorder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateGoalInput defines input for creating a goal.
type CreateGoalInput struct {
	Title       string
	Description *string
}

// UpdateGoalInput defines a partial update; nil fields are left unchanged.
type UpdateGoalInput struct {
	Title       *string
	Description *string
}

// LogTimeInput defines input for logging time.
type LogTimeInput struct {
	Minutes int
	Note    *string
}

// ListGoals returns the owner's goals, newest first, with their time entries.
func (s *GoalService) ListGoals(ctx context.Context, owner *model.User) ([]*model.Goal, error) {
	goals, err := s.store.ListGoals(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// GetGoal returns one owned goal.
func (s *GoalService) GetGoal(ctx context.Context, owner *model.User, goalID string) (*model.Goal, error) {
	goal, err := s.store.GetGoal(ctx, owner.ID, goalID)
	if err != nil {
		return nil, mapGoalErr(err)
	}
	return goal, nil
}

// CreateGoal creates a goal with no time entries.
func (s *GoalService) CreateGoal(ctx context.Context, owner *model.User, input CreateGoalInput) (*model.Goal, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	goal := &model.Goal{
		ID:          ulid.Make().String(),
		OwnerID:     owner.ID,
		Title:       title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		TimeEntries: []model.TimeEntry{},
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.metrics.IncGoalCreated()

	return goal, nil
}

// UpdateGoal applies the supplied fields and refreshes updated_at.
func (s *GoalService) UpdateGoal(ctx context.Context, owner *model.User, goalID string, input UpdateGoalInput) (*model.Goal, error) {
	update := model.GoalUpdate{
		Description: input.Description,
		UpdatedAt:   s.timestamp(),
	}
	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		update.Title = &title
	}

	goal, err := s.store.UpdateGoal(ctx, owner.ID, goalID, update)
	if err != nil {
		return nil, mapGoalErr(err)
	}

	s.metrics.IncGoalUpdated()

	return goal, nil
}

// DeleteGoal removes a goal and its time entries.
func (s *GoalService) DeleteGoal(ctx context.Context, owner *model.User, goalID string) error {
	if err := s.store.DeleteGoal(ctx, owner.ID, goalID); err != nil {
		return mapGoalErr(err)
	}

	s.metrics.IncGoalDeleted()

	return nil
}

// LogTime appends a time entry and returns the goal with its new total.
// Minutes are validated before anything is persisted.
func (s *GoalService) LogTime(ctx context.Context, owner *model.User, goalID string, input LogTimeInput) (*model.Goal, error) {
	if err := validateMinutes(input.Minutes); err != nil {
		return nil, err
	}

	entry := &model.TimeEntry{
		ID:        ulid.Make().String(),
		GoalID:    goalID,
		Minutes:   input.Minutes,
		Note:      input.Note,
		CreatedAt: s.timestamp(),
	}

	if err := s.store.CreateTimeEntry(ctx, owner.ID, entry); err != nil {
		return nil, mapGoalErr(err)
	}

	s.metrics.ObserveTimeLogged(input.Minutes)

	goal, err := s.store.GetGoal(ctx, owner.ID, goalID)
	if err != nil {
		return nil, mapGoalErr(err)
	}
	return goal, nil
}

// ListTimeEntries returns a goal's entries, oldest first.
func (s *GoalService) ListTimeEntries(ctx context.Context, owner *model.User, goalID string) ([]model.TimeEntry, error) {
	entries, err := s.store.ListTimeEntries(ctx, owner.ID, goalID)
	if err != nil {
		return nil, mapGoalErr(err)
	}
	return entries, nil
}

// timestamp is truncated to milliseconds so values survive every store unchanged.
func (s *GoalService) timestamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

func mapGoalErr(err error) error {
	if errors.Is(err, repository.ErrGoalNotFound) {
		return ErrGoalNotFound
	}
	return err
}
