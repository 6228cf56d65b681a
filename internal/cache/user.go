package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goaltracker/goaltracker/internal/model"
)

const (
	// userKeyPrefix is the Redis key prefix for resolved users.
	userKeyPrefix = "auth:user:"
	// revokedKeyPrefix marks accounts deleted recently; such users are never cached.
	revokedKeyPrefix = "auth:revoked:"
	// DefaultUserTTL bounds how long a cached user lives.
	DefaultUserTTL = 5 * time.Minute
	// revokedTTL outlives any lookup that started before the deletion.
	revokedTTL = 2 * DefaultUserTTL
)

// ErrUserRevoked is returned by SetUser when the account was deleted.
var ErrUserRevoked = errors.New("user revoked")

// CachedUser is the Redis representation of a user. The password hash is never cached.
type CachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// setUserScript writes the user unless a revocation marker exists, so a lookup
// that read the row before a concurrent delete cannot re-cache it.
var setUserScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[2]) == 1 then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return 1
`)

func userKey(id string) string {
	return userKeyPrefix + id
}

func revokedKey(id string) string {
	return revokedKeyPrefix + id
}

// GetUser retrieves a cached user by ID.
// Returns nil if not found (cache miss).
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:        cached.ID,
		Email:     cached.Email,
		FullName:  cached.FullName,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetUser caches a resolved user. It returns ErrUserRevoked, and stores
// nothing, when RevokeUser ran for the same ID within revokedTTL.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(CachedUser{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	stored, err := setUserScript.Run(ctx, c.client,
		[]string{userKey(user.ID), revokedKey(user.ID)},
		data, c.userTTL.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("cache user: %w", err)
	}
	if stored == 0 {
		return ErrUserRevoked
	}
	return nil
}

// RevokeUser drops the cached user and blocks re-caching it for revokedTTL.
// Call it after the account row is gone.
func (c *Cache) RevokeUser(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, revokedKey(id), 1, revokedTTL)
		pipe.Del(ctx, userKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke user: %w", err)
	}
	return nil
}
