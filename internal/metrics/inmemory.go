package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations       map[string]uint64
	Logins              map[string]uint64
	UserListings        uint64
	HashDurationCount   uint64
	HashDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	mu            sync.Mutex
	registrations map[string]uint64
	logins        map[string]uint64

	userListings        uint64
	hashDurationCount   uint64
	hashDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		registrations: make(map[string]uint64),
		logins:        make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	registrations := make(map[string]uint64, len(m.registrations))
	for k, v := range m.registrations {
		registrations[k] = v
	}
	logins := make(map[string]uint64, len(m.logins))
	for k, v := range m.logins {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Registrations:       registrations,
		Logins:              logins,
		UserListings:        atomic.LoadUint64(&m.userListings),
		HashDurationCount:   atomic.LoadUint64(&m.hashDurationCount),
		HashDurationTotalNs: atomic.LoadInt64(&m.hashDurationTotalNs),
	}
}

// IncRegistration increments the registration counter for outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.mu.Lock()
	m.registrations[outcome]++
	m.mu.Unlock()
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.logins[outcome]++
	m.mu.Unlock()
}

// IncUserListing increments the user listing counter.
func (m *InMemoryRecorder) IncUserListing() {
	atomic.AddUint64(&m.userListings, 1)
}

// ObserveHashDuration records time spent hashing or verifying a password.
func (m *InMemoryRecorder) ObserveHashDuration(duration time.Duration) {
	atomic.AddUint64(&m.hashDurationCount, 1)
	atomic.AddInt64(&m.hashDurationTotalNs, duration.Nanoseconds())
}

var (
	_ Recorder    = (*InMemoryRecorder)(nil)
	_ Snapshotter = (*InMemoryRecorder)(nil)
)
