package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/cache"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository/sqlite"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

var fastParams = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testEnv struct {
	store    *sqlite.Store
	creds    *auth.Credentials
	cache    *memoryCache
	recorder *metrics.InMemoryRecorder
	users    *UserService
	authz    *Authorizer
	goals    *GoalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	creds, err := auth.NewCredentials(auth.CredentialsConfig{
		Secret:   []byte(testSecret),
		Issuer:   "goaltracker-test",
		TokenTTL: 30 * time.Minute,
		Params:   fastParams,
	})
	require.NoError(t, err)

	recorder := metrics.NewInMemory()
	c := newMemoryCache()

	users, err := NewUserService(store, creds, c, recorder)
	require.NoError(t, err)

	return &testEnv{
		store:    store,
		creds:    creds,
		cache:    c,
		recorder: recorder,
		users:    users,
		authz:    NewAuthorizer(creds, store, c, recorder),
		goals:    NewGoalService(store, recorder),
	}
}

func (e *testEnv) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), RegisterInput{
		Email:    email,
		FullName: "Test User",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

// memoryCache is a map-backed UserCache with the same revocation rule as Redis.
type memoryCache struct {
	mu      sync.Mutex
	users   map[string]model.User
	revoked map[string]bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{users: make(map[string]model.User), revoked: make(map[string]bool)}
}

func (c *memoryCache) GetUser(_ context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *memoryCache) SetUser(_ context.Context, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revoked[user.ID] {
		return cache.ErrUserRevoked
	}
	u := *user
	u.PasswordHash = ""
	c.users[user.ID] = u
	return nil
}

func (c *memoryCache) RevokeUser(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[id] = true
	delete(c.users, id)
	return nil
}

func (c *memoryCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[id]
	return ok
}
