package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// DropSchema runs every down migration and forgets applied versions,
// leaving an empty database for Repository.Migrate.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	files, err := migrations.Down(migrations.Postgres)
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := pool.Exec(ctx, f.SQL); err != nil {
			return fmt.Errorf("apply down migration %s: %w", f.Name, err)
		}
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return fmt.Errorf("drop schema_migrations: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with a unique email and a placeholder hash.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Email:        UniqueEmail(name),
		FullName:     name,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestGoal creates a test goal owned by ownerID.
func NewTestGoal(t testing.TB, ownerID, title string) *model.Goal {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Goal{
		ID:          ulid.Make().String(),
		OwnerID:     ownerID,
		Title:       title,
		CreatedAt:   now,
		UpdatedAt:   now,
		TimeEntries: []model.TimeEntry{},
	}
}

// NewTestTimeEntry creates a time entry for goalID.
func NewTestTimeEntry(t testing.TB, goalID string, minutes int) *model.TimeEntry {
	t.Helper()
	return &model.TimeEntry{
		ID:        ulid.Make().String(),
		GoalID:    goalID,
		Minutes:   minutes,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", strings.ToLower(prefix), time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
