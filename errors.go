// Package corosched reports configuration failures via typed, wrapped
// sentinel errors supporting the cause chain.
package corosched

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use [errors.Is] to match against these; a failing
// [Scheduler.Init], [Scheduler.Fork], [Scheduler.Wait], or
// [Scheduler.Signal] call wraps one of these in a [*ConfigError].
var (
	// ErrBadQuantum is returned when quantum < 1.
	ErrBadQuantum = errors.New("corosched: quantum must be >= 1")

	// ErrBadEventCount is returned when eventCount > MaxEvents.
	ErrBadEventCount = errors.New("corosched: event count exceeds MaxEvents")

	// ErrBadPriority is returned when a Fork priority > MaxPriority.
	ErrBadPriority = errors.New("corosched: priority exceeds MaxPriority")

	// ErrBadEvent is returned when a Wait/Signal event id is out of range.
	ErrBadEvent = errors.New("corosched: event id out of range")

	// ErrNilHandler is returned when Fork is called with a nil handler.
	ErrNilHandler = errors.New("corosched: handler must not be nil")

	// ErrAlreadyInitialized is returned by Init when the scheduler is
	// already running.
	ErrAlreadyInitialized = errors.New("corosched: scheduler already initialized")

	// ErrNotInitialized is returned by Fork, Wait, and Signal when called
	// before Init or after End.
	ErrNotInitialized = errors.New("corosched: scheduler not initialized")
)

// ConfigError reports an invalid argument to a scheduler API call.
//
// It wraps one of the sentinel errors above, so callers can use
// errors.Is(err, corosched.ErrBadPriority) rather than comparing messages.
type ConfigError struct {
	// Op names the failing operation, e.g. "Init", "Fork", "Wait", "Signal".
	Op string
	// Cause is the wrapped sentinel error.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("corosched: %s: %v", e.Op, e.Cause)
}

// Unwrap returns the wrapped sentinel for use with [errors.Is] and
// [errors.As].
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// WrapError wraps an error with a message and optional cause chain.
//
// Pass the original error as the cause argument:
//
//	WrapError("context failed", originalErr)
//
// The result satisfies errors.Is(result, originalErr) == true.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
