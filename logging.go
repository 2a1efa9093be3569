// logging.go - Structured Logging Interface for the scheduler
//
// schedLogger is a thin wrapper around a *logiface.Logger[*stumpy.Event],
// giving the scheduler a small set of field helpers for the events it
// actually emits (lifecycle transitions, reschedule decisions, rejected
// operations) without exposing the full logiface builder surface to callers.
//
// Usage:
//
//	logger := corosched.NewLogger(stumpy.L.New(stumpy.L.WithStumpy()))
//	sched.Init(2, 1, corosched.WithLogger(logger))
//
// A nil *logiface.Logger[*stumpy.Event] (the zero value) behaves as a
// disabled logger: every Build call returns nil and the scheduler's helper
// methods become no-ops. disabledLogger wraps exactly that zero value, and
// is the default used by resolveOptions when WithLogger is not supplied.

package corosched

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// schedLogger wraps a logiface logger backed by the stumpy JSON encoder,
// exposing only the events the scheduler itself produces.
type schedLogger struct {
	log *logiface.Logger[*stumpy.Event]
}

// disabledLogger is installed by resolveOptions when no [WithLogger] option
// is given. A nil underlying logger is inert: every Build call short
// circuits, so every method below becomes a no-op.
var disabledLogger = &schedLogger{}

// NewLogger adapts a *logiface.Logger[*stumpy.Event] (typically built via
// stumpy.L.New(stumpy.L.WithStumpy(...))) for use with [WithLogger].
func NewLogger(log *logiface.Logger[*stumpy.Event]) *schedLogger {
	return &schedLogger{log: log}
}

// taskFields appends the common task identity fields to a builder.
func taskFields(b *logiface.Builder[*stumpy.Event], id, priority int) *logiface.Builder[*stumpy.Event] {
	return b.Int(`task`, id).Int(`priority`, priority)
}

// logInit records a successful Init.
func (l *schedLogger) logInit(quantum, eventCount int) {
	if b := l.log.Info(); b != nil {
		b.Int(`quantum`, quantum).Int(`events`, eventCount).Log(`scheduler initialized`)
	}
}

// logFork records a successful Fork.
func (l *schedLogger) logFork(id, priority int) {
	if b := l.log.Debug(); b != nil {
		taskFields(b, id, priority).Log(`task forked`)
	}
}

// logReschedule records a reschedule decision: whether the running task was
// preempted in favor of candidate, or the candidate was rejected.
func (l *schedLogger) logReschedule(runningID, runningPriority, candID, candPriority int, preempted, quantumExhausted bool) {
	if b := l.log.Debug(); b != nil {
		b.Int(`running`, runningID).
			Int(`runningPriority`, runningPriority).
			Int(`candidate`, candID).
			Int(`candidatePriority`, candPriority).
			Bool(`preempted`, preempted).
			Bool(`quantumExhausted`, quantumExhausted).
			Log(`reschedule decision`)
	}
}

// logWait records a task blocking on an event.
func (l *schedLogger) logWait(id, event int) {
	if b := l.log.Debug(); b != nil {
		b.Int(`task`, id).Int(`event`, event).Log(`task waiting`)
	}
}

// logSignal records how many tasks a Signal call woke.
func (l *schedLogger) logSignal(event, woken int) {
	if b := l.log.Debug(); b != nil {
		b.Int(`event`, event).Int(`woken`, woken).Log(`event signaled`)
	}
}

// logEnd records scheduler teardown.
func (l *schedLogger) logEnd() {
	if b := l.log.Info(); b != nil {
		b.Log(`scheduler terminated`)
	}
}

// logRejected records an operation rejected due to invalid arguments or
// lifecycle misuse.
func (l *schedLogger) logRejected(op string, err error) {
	if b := l.log.Warning(); b != nil {
		b.Str(`op`, op).Err(err).Log(`operation rejected`)
	}
}
