// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels for registration and login counters.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncRegistration(outcome string)
	IncLogin(outcome string)
	IncUserListing()
	ObserveHashDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
