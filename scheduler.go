package corosched

import "sync"

// Scheduler is a cooperative, priority-preemptive, round-robin user-space
// thread scheduler. The zero value is ready to use: call Init before Fork,
// Exec, Wait, or Signal.
//
// Every exported method except Init and End must be called by the task
// currently holding the run token (that is, from within a handler passed to
// Fork, or from the goroutine that called Init before its first Exec/Wait).
type Scheduler struct {
	mu sync.Mutex

	state lifecycleState
	opts  *schedulerOptions

	quantum    int
	eventCount int

	ready   readyQueue
	blocked blockingQueue

	running *Task
	// lastThread is the task handed the run token to End, retained so the
	// final runEntry goroutine to finish with nothing else ready can hand
	// the token back to it.
	lastThread *Task

	nextID int
	wg     sync.WaitGroup

	metrics *Metrics
}

// loggerOrDefault returns the configured logger, or disabledLogger if Init
// has never successfully installed one (e.g. argument validation failing
// before Init's first call ever succeeds).
func (s *Scheduler) loggerOrDefault() *schedLogger {
	if s.opts != nil && s.opts.logger != nil {
		return s.opts.logger
	}
	return disabledLogger
}

// Init configures the scheduler with the given quantum (number of
// reschedule decisions a task may run before being forced to yield to a
// peer of equal priority) and eventCount (the number of distinct event ids
// usable with Wait/Signal). The calling goroutine becomes the scheduler's
// initial running task, at priority 0.
//
// Init fails if quantum < 1, eventCount is out of [0, MaxEvents], or the
// scheduler is already initialized.
func (s *Scheduler) Init(quantum, eventCount int, opts ...Option) error {
	if quantum < 1 {
		err := &ConfigError{Op: "Init", Cause: ErrBadQuantum}
		s.loggerOrDefault().logRejected("Init", err)
		return err
	}
	if eventCount < 0 || eventCount > MaxEvents {
		err := &ConfigError{Op: "Init", Cause: ErrBadEventCount}
		s.loggerOrDefault().logRejected("Init", err)
		return err
	}
	if !s.state.TryTransition(StateUninitialized, StateRunning) {
		err := &ConfigError{Op: "Init", Cause: ErrAlreadyInitialized}
		s.loggerOrDefault().logRejected("Init", err)
		return err
	}

	cfg, err := resolveOptions(opts)
	if err != nil {
		s.state.TryTransition(StateRunning, StateUninitialized)
		cfgErr := &ConfigError{Op: "Init", Cause: err}
		s.loggerOrDefault().logRejected("Init", cfgErr)
		return cfgErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quantum = quantum
	s.eventCount = eventCount
	s.opts = cfg
	s.ready = readyQueue{}
	s.blocked = blockingQueue{}
	s.lastThread = nil
	s.nextID = 0

	s.running = newTask(s.nextID, 0, quantum, nil)
	s.nextID++

	if cfg.metricsEnabled {
		s.metrics = newMetrics()
	} else {
		s.metrics = nil
	}

	cfg.logger.logInit(quantum, eventCount)
	return nil
}

// Fork registers handler to run at priority (in [0, MaxPriority]) on its own
// goroutine, then runs the reschedule decision: handler may or may not start
// running before Fork returns, depending on the outcome.
func (s *Scheduler) Fork(handler func(priority int), priority int) (int, error) {
	if handler == nil {
		err := &ConfigError{Op: "Fork", Cause: ErrNilHandler}
		s.loggerOrDefault().logRejected("Fork", err)
		return InvalidID, err
	}
	if priority < 0 || priority > MaxPriority {
		err := &ConfigError{Op: "Fork", Cause: ErrBadPriority}
		s.loggerOrDefault().logRejected("Fork", err)
		return InvalidID, err
	}

	s.mu.Lock()
	if !s.state.IsRunning() {
		s.mu.Unlock()
		err := &ConfigError{Op: "Fork", Cause: ErrNotInitialized}
		s.loggerOrDefault().logRejected("Fork", err)
		return InvalidID, err
	}

	id := s.nextID
	s.nextID++
	task := newTask(id, priority, s.quantum, handler)

	s.wg.Add(1)
	go s.runEntry(task)

	s.ready.insert(task, priority)
	s.opts.logger.logFork(id, priority)
	if s.metrics != nil {
		s.metrics.Forks.Add(1)
	}

	s.reschedule() // unlocks s.mu

	return id, nil
}

// Exec is the cooperative yield point: it runs one reschedule decision,
// possibly preempting the calling task in favor of a higher (or, at a
// quantum boundary, equal) priority ready task.
func (s *Scheduler) Exec() {
	s.mu.Lock()
	if !s.state.IsRunning() {
		s.mu.Unlock()
		return
	}
	s.reschedule() // unlocks s.mu
}

// Wait blocks the calling task on event until a matching Signal call wakes
// it. It returns an error if event is out of range or the scheduler is not
// running.
func (s *Scheduler) Wait(event int) error {
	s.mu.Lock()
	if event < 0 || event >= s.eventCount {
		s.mu.Unlock()
		err := &ConfigError{Op: "Wait", Cause: ErrBadEvent}
		s.loggerOrDefault().logRejected("Wait", err)
		return err
	}
	if !s.state.IsRunning() {
		s.mu.Unlock()
		err := &ConfigError{Op: "Wait", Cause: ErrNotInitialized}
		s.loggerOrDefault().logRejected("Wait", err)
		return err
	}

	task := s.running
	s.blocked.enqueueWait(task, event)
	s.opts.logger.logWait(task.id, event)

	cand := s.ready.extractHighest()
	if cand == nil {
		// Nothing ready to hand the token to; the calling task would never
		// be woken. Treated the same as the original: it cannot happen in
		// a correctly driven scheduler, since the caller itself just
		// vacated the run token with nothing else runnable.
		s.mu.Unlock()
		return nil
	}

	s.running = cand
	cand.gate.open()
	s.mu.Unlock()
	task.gate.wait()
	return nil
}

// Signal wakes every task blocked on event, in the order they called Wait,
// moving them to the back of their respective priority buckets, then runs
// the reschedule decision. It returns the number of tasks woken.
func (s *Scheduler) Signal(event int) (int, error) {
	s.mu.Lock()
	if event < 0 || event >= s.eventCount {
		s.mu.Unlock()
		err := &ConfigError{Op: "Signal", Cause: ErrBadEvent}
		s.loggerOrDefault().logRejected("Signal", err)
		return 0, err
	}
	if !s.state.IsRunning() {
		s.mu.Unlock()
		err := &ConfigError{Op: "Signal", Cause: ErrNotInitialized}
		s.loggerOrDefault().logRejected("Signal", err)
		return 0, err
	}

	woken := 0
	for t := s.blocked.drain(event); t != nil; {
		next := t.next
		t.next = nil
		s.ready.insert(t, t.priority)
		woken++
		t = next
	}

	s.opts.logger.logSignal(event, woken)
	if s.metrics != nil {
		s.metrics.SignalsWoken.Add(int64(woken))
	}

	s.reschedule() // unlocks s.mu

	return woken, nil
}

// End retires the calling task, hands the run token to whatever is ready,
// and blocks until every forked task has returned from its handler, then
// tears the scheduler down so Init may be called again. Calling End on a
// scheduler that isn't running is a no-op.
//
// There is no timeout: if a handler never returns, End never returns
// either.
func (s *Scheduler) End() {
	s.mu.Lock()
	if !s.state.TryTransition(StateRunning, StateTerminating) {
		s.mu.Unlock()
		return
	}

	outgoing := s.running
	s.lastThread = outgoing

	cand := s.ready.extractHighest()
	if cand != nil {
		s.running = cand
		cand.gate.open()
	}

	s.opts.logger.logEnd()
	s.mu.Unlock()

	if cand != nil {
		outgoing.gate.wait()
	}

	s.wg.Wait()

	s.mu.Lock()
	s.lastThread = nil
	s.running = nil
	s.state.TryTransition(StateTerminating, StateUninitialized)
	s.mu.Unlock()
}

// reschedule runs one scheduling decision: it must be called with s.mu
// held, and always returns with s.mu unlocked, since a preemption blocks
// the outgoing task's goroutine on its gate until handed the token again.
func (s *Scheduler) reschedule() {
	s.running.remainingQuantum--

	cand := s.ready.extractHighest()
	if cand == nil {
		s.mu.Unlock()
		return
	}

	quantumExhausted := false
	bias := 0
	if s.running.remainingQuantum <= 0 {
		s.running.remainingQuantum = s.quantum
		quantumExhausted = true
		bias = 1
	}

	if s.running.priority < cand.priority+bias {
		outgoing := s.running
		s.ready.insert(outgoing, outgoing.priority)
		s.running = cand

		s.opts.logger.logReschedule(outgoing.id, outgoing.priority, cand.id, cand.priority, true, quantumExhausted)
		if s.metrics != nil {
			s.metrics.Preemptions.Add(1)
			if quantumExhausted {
				s.metrics.QuantumExpiries.Add(1)
			}
		}

		cand.gate.open()
		s.mu.Unlock()
		outgoing.gate.wait()
		return
	}

	s.ready.pushFront(cand)
	s.opts.logger.logReschedule(s.running.id, s.running.priority, cand.id, cand.priority, false, quantumExhausted)
	s.mu.Unlock()
}
