package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/goaltracker/goaltracker/internal/auth"
	"github.com/goaltracker/goaltracker/internal/metrics"
	"github.com/goaltracker/goaltracker/internal/model"
	"github.com/goaltracker/goaltracker/internal/repository/sqlite"
	"github.com/goaltracker/goaltracker/internal/service"
)

type handlerEnv struct {
	users    *service.UserService
	goals    *service.GoalService
	creds    *auth.Credentials
	recorder *metrics.InMemoryRecorder
	authH    *AuthHandler
	goalH    *GoalHandler
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	store, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	creds, err := auth.NewCredentials(auth.CredentialsConfig{
		Secret:   []byte("handler-test-secret-0123456789abcdef"),
		TokenTTL: 30 * time.Minute,
		Params:   auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
	})
	require.NoError(t, err)

	recorder := metrics.NewInMemory()
	users, err := service.NewUserService(store, creds, nil, recorder)
	require.NoError(t, err)
	goals := service.NewGoalService(store, recorder)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &handlerEnv{
		users:    users,
		goals:    goals,
		creds:    creds,
		recorder: recorder,
		authH:    NewAuthHandler(users, creds.TokenTTL(), logger),
		goalH:    NewGoalHandler(goals, logger),
	}
}

func (e *handlerEnv) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), service.RegisterInput{
		Email:    email,
		FullName: "Handler User",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

// asUser attaches user and chi URL params to r the way the router and auth middleware would.
func asUser(r *http.Request, user *model.User, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = auth.ContextWithUser(ctx, user)
	}
	return r.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
