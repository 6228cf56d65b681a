package model

import (
	"time"

	"github.com/samber/lo"
)

// Goal is a tracked objective owned by a single user.
// OwnerID is set at creation and never changes.
type Goal struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TimeEntries []TimeEntry
}

// TotalMinutes sums the minutes of the goal's loaded time entries.
func (g *Goal) TotalMinutes() int {
	return lo.SumBy(g.TimeEntries, func(e TimeEntry) int {
		return e.Minutes
	})
}

// TimeEntry is an immutable record of time spent on a goal.
type TimeEntry struct {
	ID        string
	GoalID    string
	Minutes   int
	Note      *string
	CreatedAt time.Time
}

// GoalUpdate carries a partial update. Nil fields are left unchanged.
type GoalUpdate struct {
	Title       *string
	Description *string
	UpdatedAt   time.Time
}

// AttachEntries distributes entries onto goals by GoalID, preserving entry order.
func AttachEntries(goals []*Goal, entries []TimeEntry) {
	byGoal := lo.GroupBy(entries, func(e TimeEntry) string {
		return e.GoalID
	})
	for _, g := range goals {
		g.TimeEntries = byGoal[g.ID]
		if g.TimeEntries == nil {
			g.TimeEntries = []TimeEntry{}
		}
	}
}
