package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const entryColumns = `id, goal_id, minutes, note, created_at`

// CreateGoal inserts one goal.
func (s *Store) CreateGoal(ctx context.Context, goal *model.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, owner_id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		toMillis(goal.CreatedAt),
		toMillis(goal.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GetGoal returns one owned goal with its time entries.
func (s *Store) GetGoal(ctx context.Context, ownerID, id string) (*model.Goal, error) {
	return getGoal(ctx, s.db, ownerID, id)
}

// ListGoals returns an owner's goals newest first, each with its time entries.
func (s *Store) ListGoals(ctx context.Context, ownerID string) ([]*model.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, description, created_at, updated_at
		 FROM goals WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	goals := []*model.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	_ = rows.Close()

	if len(goals) == 0 {
		return goals, nil
	}

	entries, err := queryEntries(ctx, s.db,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE goal_id IN (SELECT id FROM goals WHERE owner_id = ?)
		 ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	model.AttachEntries(goals, entries)
	return goals, nil
}

// UpdateGoal applies a partial update to an owned goal.
func (s *Store) UpdateGoal(ctx context.Context, ownerID, id string, update model.GoalUpdate) (*model.Goal, error) {
	var goal *model.Goal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE goals
			 SET title = COALESCE(?, title),
			     description = COALESCE(?, description),
			     updated_at = ?
			 WHERE id = ? AND owner_id = ?`,
			update.Title, update.Description, toMillis(update.UpdatedAt), id, ownerID)
		if err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrGoalNotFound
		}
		goal, err = getGoal(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes an owned goal and its time entries.
func (s *Store) DeleteGoal(ctx context.Context, ownerID, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM time_entries WHERE goal_id IN (SELECT id FROM goals WHERE id = ? AND owner_id = ?)`,
			id, ownerID,
		); err != nil {
			return fmt.Errorf("delete goal time entries: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND owner_id = ?`, id, ownerID)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrGoalNotFound
		}
		return nil
	})
}

// CreateTimeEntry records time against an owned goal and bumps its updated_at.
func (s *Store) CreateTimeEntry(ctx context.Context, ownerID string, entry *model.TimeEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE goals SET updated_at = ? WHERE id = ? AND owner_id = ?`,
			toMillis(entry.CreatedAt), entry.GoalID, ownerID)
		if err != nil {
			return fmt.Errorf("touch goal: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrGoalNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (id, goal_id, minutes, note, created_at) VALUES (?, ?, ?, ?, ?)`,
			entry.ID, entry.GoalID, entry.Minutes, entry.Note, toMillis(entry.CreatedAt),
		); err != nil {
			return fmt.Errorf("create time entry: %w", err)
		}
		return nil
	})
}

// ListTimeEntries returns the entries of an owned goal, oldest first.
func (s *Store) ListTimeEntries(ctx context.Context, ownerID, goalID string) ([]model.TimeEntry, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM goals WHERE id = ? AND owner_id = ?`, goalID, ownerID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("check goal: %w", err)
	}
	if count == 0 {
		return nil, repository.ErrGoalNotFound
	}
	return queryEntries(ctx, s.db,
		`SELECT `+entryColumns+` FROM time_entries WHERE goal_id = ? ORDER BY created_at ASC, id ASC`, goalID)
}

func getGoal(ctx context.Context, q queryer, ownerID, id string) (*model.Goal, error) {
	goal, err := scanGoal(q.QueryRowContext(ctx,
		`SELECT id, owner_id, title, description, created_at, updated_at
		 FROM goals WHERE id = ? AND owner_id = ?`, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}

	entries, err := queryEntries(ctx, q,
		`SELECT `+entryColumns+` FROM time_entries WHERE goal_id = ? ORDER BY created_at ASC, id ASC`, goal.ID)
	if err != nil {
		return nil, err
	}
	goal.TimeEntries = entries
	return goal, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var (
		goal                 model.Goal
		createdAt, updatedAt int64
	)
	if err := row.Scan(&goal.ID, &goal.OwnerID, &goal.Title, &goal.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	goal.CreatedAt = fromMillis(createdAt)
	goal.UpdatedAt = fromMillis(updatedAt)
	return &goal, nil
}

func queryEntries(ctx context.Context, q queryer, query string, args ...any) ([]model.TimeEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	entries := []model.TimeEntry{}
	for rows.Next() {
		var (
			e         model.TimeEntry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.GoalID, &e.Minutes, &e.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	return entries, nil
}
