package corosched

// InvalidID is returned by Fork when a task cannot be created.
const InvalidID = -1

// Task is a single scheduled unit of work: a handler running on its own
// goroutine, gated so that only the scheduler's currently running task may
// proceed at any instant.
//
// A Task is never copied after creation; Scheduler always works with *Task.
type Task struct {
	id       int
	priority int
	// remainingQuantum counts down from the scheduler's configured quantum
	// on every reschedule decision while this task is running; it resets to
	// the full quantum at the decision where it reaches zero (with a ready
	// candidate present), not when the task is installed as running.
	remainingQuantum int
	handler          func(priority int)
	gate             *gate
	// next chains tasks within a single readyQueue/blockingQueue bucket.
	next *Task
}

// newTask constructs a Task in the idle state; it is not runnable until the
// scheduler starts its goroutine via runEntry.
func newTask(id, priority, quantum int, handler func(priority int)) *Task {
	return &Task{
		id:               id,
		priority:         priority,
		remainingQuantum: quantum,
		handler:          handler,
		gate:             newGate(),
	}
}
