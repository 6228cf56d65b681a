package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncLoginAttempt is a no-op.
func (n *NoopRecorder) IncLoginAttempt(result string) {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncGoalCreated is a no-op.
func (n *NoopRecorder) IncGoalCreated() {}

// IncGoalUpdated is a no-op.
func (n *NoopRecorder) IncGoalUpdated() {}

// IncGoalDeleted is a no-op.
func (n *NoopRecorder) IncGoalDeleted() {}

// ObserveTimeLogged is a no-op.
func (n *NoopRecorder) ObserveTimeLogged(minutes int) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
