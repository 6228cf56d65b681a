package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	UsersDeleted     uint64
	LoginAttempts    map[string]uint64
	AuthCacheHits    uint64
	AuthCacheMisses  uint64
	GoalsCreated     uint64
	GoalsUpdated     uint64
	GoalsDeleted     uint64
	TimeEntries      uint64
	MinutesLogged    uint64
	HTTPRequests     uint64
	HTTPServerErrors uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered  uint64
	usersDeleted     uint64
	authCacheHits    uint64
	authCacheMisses  uint64
	goalsCreated     uint64
	goalsUpdated     uint64
	goalsDeleted     uint64
	timeEntries      uint64
	minutesLogged    uint64
	httpRequests     uint64
	httpServerErrors uint64

	mu            sync.Mutex
	loginAttempts map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{loginAttempts: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	logins := make(map[string]uint64, len(m.loginAttempts))
	for k, v := range m.loginAttempts {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		UsersRegistered:  atomic.LoadUint64(&m.usersRegistered),
		UsersDeleted:     atomic.LoadUint64(&m.usersDeleted),
		LoginAttempts:    logins,
		AuthCacheHits:    atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:  atomic.LoadUint64(&m.authCacheMisses),
		GoalsCreated:     atomic.LoadUint64(&m.goalsCreated),
		GoalsUpdated:     atomic.LoadUint64(&m.goalsUpdated),
		GoalsDeleted:     atomic.LoadUint64(&m.goalsDeleted),
		TimeEntries:      atomic.LoadUint64(&m.timeEntries),
		MinutesLogged:    atomic.LoadUint64(&m.minutesLogged),
		HTTPRequests:     atomic.LoadUint64(&m.httpRequests),
		HTTPServerErrors: atomic.LoadUint64(&m.httpServerErrors),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserDeleted increments the account deletion counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncLoginAttempt counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLoginAttempt(result string) {
	m.mu.Lock()
	m.loginAttempts[result]++
	m.mu.Unlock()
}

// IncAuthCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}

// IncGoalCreated increments goal created counter.
func (m *InMemoryRecorder) IncGoalCreated() {
	atomic.AddUint64(&m.goalsCreated, 1)
}

// IncGoalUpdated increments goal updated counter.
func (m *InMemoryRecorder) IncGoalUpdated() {
	atomic.AddUint64(&m.goalsUpdated, 1)
}

// IncGoalDeleted increments goal deleted counter.
func (m *InMemoryRecorder) IncGoalDeleted() {
	atomic.AddUint64(&m.goalsDeleted, 1)
}

// ObserveTimeLogged records one time entry.
func (m *InMemoryRecorder) ObserveTimeLogged(minutes int) {
	atomic.AddUint64(&m.timeEntries, 1)
	atomic.AddUint64(&m.minutesLogged, uint64(minutes))
}

// ObserveHTTPRequest records a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&m.httpServerErrors, 1)
	}
}
