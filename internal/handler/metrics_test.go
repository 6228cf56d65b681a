package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goaltracker/goaltracker/internal/metrics"
)

func TestMetricsHandler_InMemorySnapshot(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncGoalCreated()
	recorder.ObserveTimeLogged(30)
	recorder.IncLoginAttempt(metrics.LoginFailure)

	h := NewMetricsHandler(recorder)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"goaltracker_goals_created_total 1\n",
		"goaltracker_minutes_logged_total 30\n",
		`goaltracker_login_attempts_total{result="failure"} 1` + "\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output:\n%s", want, body)
		}
	}
}

func TestMetricsHandler_Prometheus(t *testing.T) {
	recorder := metrics.NewPrometheus()
	recorder.IncGoalDeleted()

	h := NewMetricsHandler(recorder)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "goaltracker_") {
		t.Errorf("expected goaltracker metrics in output")
	}
}

func TestMetricsHandler_Unavailable(t *testing.T) {
	h := NewMetricsHandler(metrics.NewNoop())
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
