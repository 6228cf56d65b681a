package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository"
)

// CreateUser inserts one user. Returns repository.ErrEmailExists on duplicate email.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.FullName,
		user.PasswordHash,
		toMillis(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID returns one user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail returns one user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `WHERE email = ?`, email)
}

// DeleteUser removes a user with all owned goals and time entries.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM time_entries WHERE goal_id IN (SELECT id FROM goals WHERE owner_id = ?)`, id,
		); err != nil {
			return fmt.Errorf("delete user time entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE owner_id = ?`, id); err != nil {
			return fmt.Errorf("delete user goals: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrUserNotFound
		}
		return nil
	})
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		user      model.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, created_at FROM users `+where, arg,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}
