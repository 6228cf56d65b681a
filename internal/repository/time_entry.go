package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/goaltracker/goaltracker/internal/model"
)

// CreateTimeEntry records time against an owned goal and bumps the goal's updated_at.
// Returns ErrGoalNotFound if the goal does not exist or belongs to someone else.
func (r *Repository) CreateTimeEntry(ctx context.Context, ownerID string, entry *model.TimeEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE goals SET updated_at = $3
			WHERE id = $1 AND owner_id = $2
		`, entry.GoalID, ownerID, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to touch goal: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrGoalNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO time_entries (id, goal_id, minutes, note, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, entry.ID, entry.GoalID, entry.Minutes, entry.Note, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return nil
	})
}

// ListTimeEntries returns the entries of an owned goal, oldest first.
func (r *Repository) ListTimeEntries(ctx context.Context, ownerID, goalID string) ([]model.TimeEntry, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM goals WHERE id = $1 AND owner_id = $2)`,
		goalID, ownerID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check goal: %w", err)
	}
	if !exists {
		return nil, ErrGoalNotFound
	}

	return queryEntries(ctx, r.pool, `
		SELECT id, goal_id, minutes, note, created_at
		FROM time_entries
		WHERE goal_id = $1
		ORDER BY created_at ASC, id ASC
	`, goalID)
}

func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]model.TimeEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	entries := []model.TimeEntry{}
	for rows.Next() {
		var e model.TimeEntry
		if err := rows.Scan(&e.ID, &e.GoalID, &e.Minutes, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entries: %w", err)
	}

	return entries, nil
}
