package corosched

import (
	"sync/atomic"
)

// State represents the lifecycle state of a [Scheduler].
//
// State Machine:
//
//	StateUninitialized (0) → StateRunning (1)      [Init()]
//	StateRunning (1) → StateTerminating (2)        [End() begins]
//	StateTerminating (2) → StateUninitialized (0)  [End() completes]
//
// State Transition Rules:
//   - Use TryTransition() (CAS) for every transition; there is no
//     irreversible terminal state, since a Scheduler may be re-initialized
//     after End completes.
//   - Init is the only writer that moves StateUninitialized → StateRunning.
//   - End is the only writer that moves StateRunning → StateTerminating and,
//     once teardown completes, StateTerminating → StateUninitialized.
type State uint64

const (
	// StateUninitialized indicates Init has not been called, or a prior End
	// has completed.
	StateUninitialized State = 0
	// StateRunning indicates the scheduler has a live running task and
	// accepts Fork/Exec/Wait/Signal.
	StateRunning State = 1
	// StateTerminating indicates End has been called but teardown (joining
	// outstanding tasks) has not yet completed.
	StateTerminating State = 2
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// lifecycleState is a lock-free state machine guarding Init/End idempotency.
//
// The CAS transitions in Init and End are what make double-Init and
// concurrent End calls safe without holding the scheduler mutex across the
// whole call; Fork/Exec/Wait/Signal still take the mutex (they touch the
// shared queues), but use Load/IsRunning to reject calls cheaply before
// doing any other work.
type lifecycleState struct {
	v atomic.Uint64
}

// Load returns the current state atomically.
func (s *lifecycleState) Load() State {
	return State(s.v.Load())
}

// TryTransition attempts to atomically transition from one state to another.
// Returns true if the transition was successful.
func (s *lifecycleState) TryTransition(from, to State) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

// IsRunning returns true if the scheduler currently has a live running task.
func (s *lifecycleState) IsRunning() bool {
	return s.Load() == StateRunning
}
