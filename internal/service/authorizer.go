package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/cache"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository"
)

// Authorizer turns a bearer token into the user it was issued for.
type Authorizer struct {
	creds   *auth.Credentials
	store   UserStore
	cache   UserCache
	metrics metrics.Recorder
}

// NewAuthorizer creates a new Authorizer. userCache may be nil.
func NewAuthorizer(creds *auth.Credentials, store UserStore, userCache UserCache, recorder metrics.Recorder) *Authorizer {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Authorizer{
		creds:   creds,
		store:   store,
		cache:   userCache,
		metrics: recorder,
	}
}

// Resolve validates token and loads its user.
// Every credential problem yields an error matching ErrUnauthorized; the wrapped
// cause is kept for logging. Store failures are returned as-is.
func (a *Authorizer) Resolve(ctx context.Context, token string) (*model.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	userID, err := a.creds.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if a.cache != nil {
		if cached, _ := a.cache.GetUser(ctx, userID); cached != nil {
			a.metrics.IncAuthCacheHit()
			return cached, nil
		}
		a.metrics.IncAuthCacheMiss()
	}

	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if a.cache != nil {
		// The account was deleted after the read above.
		if err := a.cache.SetUser(ctx, user); errors.Is(err, cache.ErrUserRevoked) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrUserNotFound)
		}
	}

	return user, nil
}
