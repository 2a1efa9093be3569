package corosched

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_InitRejectsBadQuantum(t *testing.T) {
	var s Scheduler
	err := s.Init(0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadQuantum))
}

func TestScheduler_InitRejectsBadEventCount(t *testing.T) {
	var s Scheduler
	err := s.Init(2, MaxEvents+1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadEventCount))
}

func TestScheduler_InitRejectsDoubleInit(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	err := s.Init(2, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestScheduler_ForkRejectsNilHandler(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	id, err := s.Fork(nil, 0)
	require.Error(t, err)
	assert.Equal(t, InvalidID, id)
	assert.True(t, errors.Is(err, ErrNilHandler))
}

func TestScheduler_ForkRejectsBadPriority(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	id, err := s.Fork(func(int) {}, MaxPriority+1)
	require.Error(t, err)
	assert.Equal(t, InvalidID, id)
	assert.True(t, errors.Is(err, ErrBadPriority))
}

func TestScheduler_WaitRejectsOutOfRangeEvent(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	err := s.Wait(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadEvent))
}

func TestScheduler_SignalRejectsOutOfRangeEvent(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	woken, err := s.Signal(1)
	require.Error(t, err)
	assert.Equal(t, 0, woken)
	assert.True(t, errors.Is(err, ErrBadEvent))
}

func TestScheduler_SignalOnEmptyEventReturnsZero(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	woken, err := s.Signal(0)
	require.NoError(t, err)
	assert.Equal(t, 0, woken)
}

// TestScheduler_StrictPriorityPreemption forks a higher-priority task while
// a lower-priority one is running; the lower-priority task must be
// preempted immediately, before it calls Exec again.
func TestScheduler_StrictPriorityPreemption(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	_, err := s.Fork(func(int) {
		record("low:start")
		_, err := s.Fork(func(int) {
			record("high")
		}, 5)
		require.NoError(t, err)
		record("low:end")
	}, 1)
	require.NoError(t, err)

	s.End()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, []string{"low:start", "high", "low:end"}, order)
}

// TestScheduler_EqualPriorityRoundRobinAtQuantum verifies that an equal
// priority task forked mid-quantum does not run until the forking task
// hits a quantum boundary, and that the quantum boundary does hand it the
// run token rather than letting the forker run straight through.
func TestScheduler_EqualPriorityRoundRobinAtQuantum(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	_, err := s.Fork(func(int) {
		record("a1")
		_, err := s.Fork(func(int) {
			record("b1")
			s.Exec()
			record("b2")
		}, 2)
		require.NoError(t, err)
		s.Exec()
		record("a2")
	}, 2)
	require.NoError(t, err)

	s.End()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 4)
	assert.Equal(t, []string{"a1", "b1"}, order[:2])
	assert.ElementsMatch(t, []string{"a2", "b2"}, order[2:])
}

// TestScheduler_LowerPriorityDoesNotPreempt ensures a newly forked
// lower-priority task does not interrupt the currently running task.
func TestScheduler_LowerPriorityDoesNotPreempt(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	_, err := s.Fork(func(int) {
		record("high:start")
		_, err := s.Fork(func(int) {
			record("low")
		}, 0)
		require.NoError(t, err)
		record("high:end")
	}, 5)
	require.NoError(t, err)

	s.End()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, "high:start", order[0])
	assert.Equal(t, "high:end", order[1])
	assert.Equal(t, "low", order[2])
}

// TestScheduler_WaitSignalFIFO checks that three tasks blocked on the same
// event are woken in the order they called Wait.
func TestScheduler_WaitSignalFIFO(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	waiters := 3
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		name := string(rune('a' + i))
		_, err := s.Fork(func(int) {
			defer wg.Done()
			require.NoError(t, s.Wait(0))
			record(name)
		}, 1)
		require.NoError(t, err)
	}

	// Each Fork above already drove its new task onto Wait(0), via the
	// reschedule triggered by Fork itself, before returning control here.

	_, err := s.Fork(func(int) {
		woken, err := s.Signal(0)
		require.NoError(t, err)
		assert.Equal(t, waiters, woken)
	}, 1)
	require.NoError(t, err)

	s.End()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, waiters)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

// TestScheduler_MetricsCountsPreemptionsAndSignals enables WithMetrics,
// drives a fork-triggered preemption, a quantum expiry, and a Signal, and
// checks the counters reflect them.
func TestScheduler_MetricsCountsPreemptionsAndSignals(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(1, 1, WithMetrics(true)))

	m := s.Metrics()
	require.NotNil(t, m)

	_, err := s.Fork(func(int) {
		require.NoError(t, s.Wait(0))
	}, 1)
	require.NoError(t, err)

	_, err = s.Fork(func(int) {
		woken, err := s.Signal(0)
		require.NoError(t, err)
		assert.Equal(t, 1, woken)
	}, 1)
	require.NoError(t, err)

	s.End()

	assert.GreaterOrEqual(t, m.Forks.Load(), int64(2))
	assert.GreaterOrEqual(t, m.Preemptions.Load(), int64(1))
	assert.GreaterOrEqual(t, m.QuantumExpiries.Load(), int64(1))
	assert.Equal(t, int64(1), m.SignalsWoken.Load())
}

// TestScheduler_MetricsNilWhenDisabled checks that Metrics returns nil when
// WithMetrics was never passed to Init.
func TestScheduler_MetricsNilWhenDisabled(t *testing.T) {
	var s Scheduler
	require.NoError(t, s.Init(2, 1))
	defer s.End()

	assert.Nil(t, s.Metrics())
}

// TestScheduler_WithLoggerDoesNotAlterScheduling installs a real
// logiface/stumpy logger (writing to io.Discard) and checks that the
// strict-priority-preemption scheduling decision is unaffected by its
// presence.
func TestScheduler_WithLoggerDoesNotAlterScheduling(t *testing.T) {
	logger := NewLogger(stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard))))

	var s Scheduler
	require.NoError(t, s.Init(2, 1, WithLogger(logger)))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	_, err := s.Fork(func(int) {
		record("low:start")
		_, err := s.Fork(func(int) {
			record("high")
		}, 5)
		require.NoError(t, err)
		record("low:end")
	}, 1)
	require.NoError(t, err)

	s.End()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"low:start", "high", "low:end"}, order)
}

func TestConfigError_UnwrapAndIs(t *testing.T) {
	err := &ConfigError{Op: "Fork", Cause: ErrBadPriority}
	assert.True(t, errors.Is(err, ErrBadPriority))
	assert.Equal(t, ErrBadPriority, err.Unwrap())
	assert.Contains(t, err.Error(), "Fork")
}
