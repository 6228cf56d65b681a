// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login attempt outcomes.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncUserDeleted()
	IncLoginAttempt(result string)

	// Token resolution cache
	IncAuthCacheHit()
	IncAuthCacheMiss()

	// Goal metrics
	IncGoalCreated()
	IncGoalUpdated()
	IncGoalDeleted()
	ObserveTimeLogged(minutes int)

	// HTTP metrics; route is the matched pattern, not the raw path.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
