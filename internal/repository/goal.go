package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/goaltracker/goaltracker/internal/model"
)

// ErrGoalNotFound is returned when no goal with the given ID belongs to the owner.
var ErrGoalNotFound = errors.New("goal not found")

const goalColumns = `id, owner_id, title, description, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateGoal inserts a new goal into the database.
func (r *Repository) CreateGoal(ctx context.Context, goal *model.Goal) error {
	query := `
		INSERT INTO goals (id, owner_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// GetGoal retrieves an owned goal with its time entries.
func (r *Repository) GetGoal(ctx context.Context, ownerID, id string) (*model.Goal, error) {
	return getGoal(ctx, r.pool, ownerID, id)
}

// ListGoals retrieves all goals of an owner, newest first, with their time entries.
func (r *Repository) ListGoals(ctx context.Context, ownerID string) ([]*model.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []*model.Goal{}
	ids := []string{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
		ids = append(ids, goal.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	if len(goals) == 0 {
		return goals, nil
	}

	entries, err := queryEntries(ctx, r.pool, `
		SELECT id, goal_id, minutes, note, created_at
		FROM time_entries
		WHERE goal_id = ANY($1::text[])
		ORDER BY created_at ASC, id ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	model.AttachEntries(goals, entries)
	return goals, nil
}

// UpdateGoal applies a partial update to an owned goal and returns the result.
func (r *Repository) UpdateGoal(ctx context.Context, ownerID, id string, update model.GoalUpdate) (*model.Goal, error) {
	var goal *model.Goal
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE goals
			SET title = COALESCE($3::text, title),
			    description = COALESCE($4::text, description),
			    updated_at = $5
			WHERE id = $1 AND owner_id = $2
		`, id, ownerID, update.Title, update.Description, update.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrGoalNotFound
		}

		goal, err = getGoal(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes an owned goal and all of its time entries.
func (r *Repository) DeleteGoal(ctx context.Context, ownerID, id string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM time_entries
			WHERE goal_id IN (SELECT id FROM goals WHERE id = $1 AND owner_id = $2)
		`, id, ownerID); err != nil {
			return fmt.Errorf("failed to delete goal time entries: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND owner_id = $2`, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrGoalNotFound
		}
		return nil
	})
}

func getGoal(ctx context.Context, q querier, ownerID, id string) (*model.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE id = $1 AND owner_id = $2
	`

	goal, err := scanGoal(q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	entries, err := queryEntries(ctx, q, `
		SELECT id, goal_id, minutes, note, created_at
		FROM time_entries
		WHERE goal_id = $1
		ORDER BY created_at ASC, id ASC
	`, goal.ID)
	if err != nil {
		return nil, err
	}
	goal.TimeEntries = entries

	return goal, nil
}

func scanGoal(row pgx.Row) (*model.Goal, error) {
	var goal model.Goal
	err := row.Scan(
		&goal.ID,
		&goal.OwnerID,
		&goal.Title,
		&goal.Description,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
