package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/goaltracker/goaltracker/migrations"
)

// Migrate applies any pending embedded migrations and returns the names applied.
// Each migration runs in its own transaction together with its schema_migrations row.
func (r *Repository) Migrate(ctx context.Context) ([]string, error) {
	files, err := migrations.Up(migrations.Postgres)
	if err != nil {
		return nil, err
	}

	if _, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := []string{}
	for _, f := range files {
		var done bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, f.Name,
		).Scan(&done); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", f.Name, err)
		}
		if done {
			continue
		}

		err := r.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, f.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", f.Name, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, f.Name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", f.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, f.Name)
	}

	return applied, nil
}
