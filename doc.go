// Package corosched implements a cooperative, priority-preemptive,
// round-robin user-space thread scheduler on top of goroutines.
//
// # Architecture
//
// A [Scheduler] owns a priority-bucketed ready queue, an event-bucketed
// blocking queue, and the single currently-running [Task]. Callers register
// handlers with [Scheduler.Fork]; each handler runs on its own goroutine, but
// the scheduler guarantees that at most one handler is actually executing at
// any instant — every other task goroutine is parked on its own gate,
// waiting to be handed the run token.
//
// [Scheduler.Exec] is the cooperative yield point: it runs the scheduler's
// reschedule decision, which may preempt the calling task in favor of a
// higher-priority (or, at a quantum boundary, equal-priority) ready task.
// [Scheduler.Wait] and [Scheduler.Signal] implement a single synchronization
// primitive, keyed by small integer event ids, modeling an I/O-wait/signal
// pair rather than a general condition variable.
//
// # Thread Safety
//
// [Scheduler.Fork], [Scheduler.Exec], [Scheduler.Wait], and
// [Scheduler.Signal] are intended to be called only by the currently running
// task — that is precisely the task holding the run token at the time of the
// call. [Scheduler.Init] and [Scheduler.End] are the two lifecycle bookends
// and are safe to call from whatever goroutine owns the scheduler's
// lifecycle (typically the process's main goroutine).
//
// # Execution Model
//
// Within the reschedule decision:
//
//  1. the running task's remaining quantum is decremented;
//  2. the highest-priority ready task is extracted;
//  3. a quantum boundary resets the running task's quantum and biases the
//     preemption decision toward round-robin among peers;
//  4. the decision either installs the candidate as running (preempting the
//     old one to the tail of its bucket) or returns the candidate to the
//     front of its own bucket, unchanged.
//
// # Usage
//
//	var sched corosched.Scheduler
//	if err := sched.Init(2, 1); err != nil {
//		log.Fatal(err)
//	}
//	defer sched.End()
//
//	sched.Fork(func(priority int) {
//		fmt.Println("hello from priority", priority)
//	}, 5)
//
//	sched.Exec()
//
// # Error Types
//
// Configuration failures ([Scheduler.Init], [Scheduler.Fork],
// [Scheduler.Wait], [Scheduler.Signal]) are reported via a typed
// [*ConfigError] wrapping one of the sentinel errors ([ErrBadQuantum],
// [ErrBadEventCount], [ErrBadPriority], [ErrBadEvent], [ErrNilHandler]).
// Lifecycle misuse is reported via a [*ConfigError] wrapping
// [ErrAlreadyInitialized] / [ErrNotInitialized]. All satisfy
// [errors.Is] and [errors.Unwrap] against their wrapped sentinel.
package corosched
