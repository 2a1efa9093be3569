package corosched

// runEntry is the goroutine body started by Fork for each task. It parks on
// the task's own gate until handed the run token, runs the handler to
// completion, then hands the token on to whatever is ready next -- or, if
// nothing is ready, to the task waiting in End.
func (s *Scheduler) runEntry(task *Task) {
	task.gate.wait()

	task.handler(task.priority)

	s.mu.Lock()
	cand := s.ready.extractHighest()
	switch {
	case cand != nil:
		s.running = cand
		cand.gate.open()
	case s.lastThread != nil:
		s.running = s.lastThread
		s.lastThread.gate.open()
	}
	s.wg.Done()
	s.mu.Unlock()
}
