package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitRuns(t *testing.T, runs <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for run %d of %d", i+1, n)
		}
	}
}

func TestScheduler_Add_Validates(t *testing.T) {
	s := NewScheduler(nil, nil)
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Add(Job{Interval: time.Minute, Run: noop}))
	assert.Error(t, s.Add(Job{Name: "dashboard", Interval: time.Minute}))
	assert.Error(t, s.Add(Job{Name: "dashboard", Run: noop}))
	assert.NoError(t, s.Add(Job{Name: "dashboard", Interval: time.Minute, Run: noop}))
}

func TestScheduler_RunOnce_WrapsError(t *testing.T) {
	s := NewScheduler(clockwork.NewFakeClock(), nil)
	boom := errors.New("backend down")
	err := s.RunOnce(context.Background(), Job{
		Name: "alerts",
		Run:  func(context.Context) error { return boom },
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "refresh alerts")
}

func TestScheduler_RunPeriodic(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, nil)

	runs := make(chan struct{}, 10)
	var calls atomic.Int32
	job := Job{
		Name:     "dashboard",
		Interval: DefaultInterval,
		Run: func(context.Context) error {
			// Failures must not stop the loop.
			if calls.Add(1) == 2 {
				runs <- struct{}{}
				return errors.New("transient")
			}
			runs <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunPeriodic(ctx, job) }()

	waitRuns(t, runs, 1)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(DefaultInterval - time.Second)
	select {
	case <-runs:
		t.Fatal("job ran before its interval elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Second)
	waitRuns(t, runs, 1)
	clock.Advance(DefaultInterval)
	waitRuns(t, runs, 1)
	assert.Equal(t, int32(3), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunPeriodic did not return after cancel")
	}
}

func TestScheduler_StartWait(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, nil)

	runs := make(chan struct{}, 10)
	for _, name := range []string{"dashboard", "alerts"} {
		require.NoError(t, s.Add(Job{
			Name:     name,
			Interval: DefaultInterval,
			Run: func(context.Context) error {
				runs <- struct{}{}
				return nil
			},
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	waitRuns(t, runs, 2)
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
	clock.Advance(DefaultInterval)
	waitRuns(t, runs, 2)

	cancel()
	s.Wait()
}
