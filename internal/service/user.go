package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository"
)

// dummyPassword is hashed once so unknown-email logins cost the same as wrong-password logins.
const dummyPassword = "goaltracker-timing-equalizer"

// UserService handles registration, authentication and account removal.
type UserService struct {
	store     UserStore
	creds     *auth.Credentials
	cache     UserCache
	metrics   metrics.Recorder
	dummyHash string
	now       func() time.Time
}

// NewUserService creates a new UserService. userCache may be nil.
func NewUserService(store UserStore, creds *auth.Credentials, userCache UserCache, recorder metrics.Recorder) (*UserService, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	dummy, err := creds.HashPassword(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &UserService{
		store:     store,
		creds:     creds,
		cache:     userCache,
		metrics:   recorder,
		dummyHash: dummy,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// Register creates a new account. Only the password hash is stored.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        input.Email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		CreatedAt:    s.now().Truncate(time.Millisecond),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// FindByID retrieves a user by ID.
func (s *UserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user whose password matches, or (nil, nil) when the
// email is unknown or the password is wrong. The two cases are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.creds.VerifyPassword(password, s.dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	if user == nil {
		s.metrics.IncLoginAttempt(metrics.LoginFailure)
		return "", ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginAttempt(metrics.LoginSuccess)
	return token, nil
}

// Delete removes an account with all of its goals and time entries.
func (s *UserService) Delete(ctx context.Context, user *model.User) error {
	if err := s.store.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.metrics.IncUserDeleted()

	// Revoke after the row is gone: a concurrent Resolve either cached the
	// user before this point (and the entry is dropped here) or is refused.
	if s.cache != nil {
		if err := s.cache.RevokeUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to revoke cached user: %w", err)
		}
	}
	return nil
}
