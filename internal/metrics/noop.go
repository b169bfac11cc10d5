package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncUserListing is a no-op.
func (n *NoopRecorder) IncUserListing() {}

// ObserveHashDuration is a no-op.
func (n *NoopRecorder) ObserveHashDuration(duration time.Duration) {}
