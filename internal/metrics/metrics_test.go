package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncUserRegistered()
	m.IncLoginAttempt(LoginSuccess)
	m.IncLoginAttempt(LoginFailure)
	m.IncLoginAttempt(LoginFailure)
	m.IncGoalCreated()
	m.ObserveTimeLogged(30)
	m.ObserveTimeLogged(45)
	m.ObserveHTTPRequest("GET", "/goals/", 200, time.Millisecond)
	m.ObserveHTTPRequest("GET", "/goals/", 500, time.Millisecond)

	s := m.Snapshot()
	if s.UsersRegistered != 1 {
		t.Errorf("UsersRegistered = %d, want 1", s.UsersRegistered)
	}
	if s.LoginAttempts[LoginFailure] != 2 || s.LoginAttempts[LoginSuccess] != 1 {
		t.Errorf("unexpected login attempts: %v", s.LoginAttempts)
	}
	if s.TimeEntries != 2 || s.MinutesLogged != 75 {
		t.Errorf("time logged = %d entries / %d minutes, want 2 / 75", s.TimeEntries, s.MinutesLogged)
	}
	if s.HTTPRequests != 2 || s.HTTPServerErrors != 1 {
		t.Errorf("http = %d / %d, want 2 / 1", s.HTTPRequests, s.HTTPServerErrors)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncLoginAttempt(LoginSuccess)
	s := m.Snapshot()
	s.LoginAttempts[LoginSuccess] = 99

	if got := m.Snapshot().LoginAttempts[LoginSuccess]; got != 1 {
		t.Errorf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestPrometheusRecorder_Collects(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncLoginAttempt(LoginRateLimited)
	p.IncGoalDeleted()
	p.IncGoalDeleted()

	if got := testutil.ToFloat64(p.loginAttempts.WithLabelValues(LoginRateLimited)); got != 1 {
		t.Errorf("login_attempts_total{rate_limited} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.goalEvents.WithLabelValues("deleted")); got != 2 {
		t.Errorf("goal_events_total{deleted} = %v, want 2", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncUserRegistered()
	p.ObserveHTTPRequest("POST", "/auth/register", 201, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"goaltracker_users_registered_total 1",
		`goaltracker_http_requests_total{method="POST",route="/auth/register",status="201"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestRecordersSatisfyInterface(t *testing.T) {
	t.Parallel()

	var _ Recorder = NewNoop()
	var _ Recorder = NewInMemory()
	var _ Recorder = NewPrometheus()
	var _ Snapshotter = NewInMemory()
}
