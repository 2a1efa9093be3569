package corosched

import "sync/atomic"

// Metrics holds atomic runtime counters for a Scheduler, enabled via
// WithMetrics. All fields are safe for concurrent use with Load/Add.
type Metrics struct {
	// Forks counts successful Fork calls.
	Forks atomic.Int64
	// Preemptions counts reschedule decisions that installed a new running
	// task.
	Preemptions atomic.Int64
	// QuantumExpiries counts reschedule decisions triggered by the running
	// task exhausting its quantum.
	QuantumExpiries atomic.Int64
	// SignalsWoken counts tasks moved from the blocking queue to the ready
	// queue by Signal.
	SignalsWoken atomic.Int64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// Metrics returns the scheduler's runtime counters, or nil if WithMetrics
// was not enabled at Init.
func (s *Scheduler) Metrics() *Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}
