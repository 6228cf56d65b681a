package service

import (
	"context"

	"github.com/goaltracker/goaltracker/internal/model"
)

// UserStore persists accounts. Implemented by repository.Repository and sqlite.Store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// GoalStore persists goals and time entries. Every method is scoped to ownerID.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, ownerID, id string) (*model.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]*model.Goal, error)
	UpdateGoal(ctx context.Context, ownerID, id string, update model.GoalUpdate) (*model.Goal, error)
	DeleteGoal(ctx context.Context, ownerID, id string) error
	CreateTimeEntry(ctx context.Context, ownerID string, entry *model.TimeEntry) error
	ListTimeEntries(ctx context.Context, ownerID, goalID string) ([]model.TimeEntry, error)
}

// UserCache caches resolved users. Implemented by cache.Cache; may be nil.
// SetUser must fail with cache.ErrUserRevoked for an ID passed to RevokeUser
// recently, checking and writing atomically.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	RevokeUser(ctx context.Context, id string) error
}
