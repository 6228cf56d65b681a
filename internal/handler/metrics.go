package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/goaltracker/goaltracker/internal/metrics"
)

// MetricsHandler exposes application metrics.
// A Prometheus recorder serves its own registry; an in-memory recorder is
// rendered as plain counters.
type MetricsHandler struct {
	exporter    http.Handler
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler for recorder.
func NewMetricsHandler(recorder metrics.Recorder) *MetricsHandler {
	h := &MetricsHandler{}
	switch rec := recorder.(type) {
	case interface{ Handler() http.Handler }:
		h.exporter = rec.Handler()
	case metrics.Snapshotter:
		h.snapshotter = rec
	}
	return h
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exporter != nil {
		h.exporter.ServeHTTP(w, r)
		return
	}
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "goaltracker_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "goaltracker_users_deleted_total %d\n", snap.UsersDeleted)

	results := make([]string, 0, len(snap.LoginAttempts))
	for result := range snap.LoginAttempts {
		results = append(results, result)
	}
	sort.Strings(results)
	for _, result := range results {
		writeMetric(w, "goaltracker_login_attempts_total{result=%q} %d\n", result, snap.LoginAttempts[result])
	}

	writeMetric(w, "goaltracker_auth_cache_hits_total %d\n", snap.AuthCacheHits)
	writeMetric(w, "goaltracker_auth_cache_misses_total %d\n", snap.AuthCacheMisses)

	writeMetric(w, "goaltracker_goals_created_total %d\n", snap.GoalsCreated)
	writeMetric(w, "goaltracker_goals_updated_total %d\n", snap.GoalsUpdated)
	writeMetric(w, "goaltracker_goals_deleted_total %d\n", snap.GoalsDeleted)
	writeMetric(w, "goaltracker_time_entries_total %d\n", snap.TimeEntries)
	writeMetric(w, "goaltracker_minutes_logged_total %d\n", snap.MinutesLogged)

	writeMetric(w, "goaltracker_http_requests_total %d\n", snap.HTTPRequests)
	writeMetric(w, "goaltracker_http_server_errors_total %d\n", snap.HTTPServerErrors)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
