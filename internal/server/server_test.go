package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServeAndShutdownInReverseOrder(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := New(handler, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("store", record("store"))
	srv.OnShutdown("cache", record("cache"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	client := &http.Client{Timeout: 2 * time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"cache", "store"}, order)
}

func TestServer_ShutdownErrorsAreJoined(t *testing.T) {
	t.Parallel()

	srv := New(http.NotFoundHandler(), testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	first := errors.New("store close failed")
	second := errors.New("cache close failed")
	srv.OnShutdown("store", func(context.Context) error { return first })
	srv.OnShutdown("cache", func(context.Context) error { return second })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}
