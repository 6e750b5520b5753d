// Package refresh keeps domain containers fresh on fixed intervals, independent of
// any manual refresh a consumer triggers.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/observability"
)

// DefaultInterval is the dashboard and alerts polling period.
const DefaultInterval = 5 * time.Minute

// Job is one periodically executed refresh.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on their intervals until its context ends.
type Scheduler struct {
	clock  clockwork.Clock
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler. Nil clock and logger use the real clock and a no-op logger.
func NewScheduler(clock clockwork.Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{clock: clock, logger: logger}
}

// Add registers a job. Jobs added after Start are not run.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("refresh job needs a name and a run function")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("refresh job %q: interval must be positive, got %s", job.Name, job.Interval)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// RunOnce executes job and records its outcome.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	start := s.clock.Now()
	err := job.Run(ctx)
	duration := s.clock.Since(start).Seconds()
	observability.RefreshDurationSeconds.WithLabelValues(job.Name).Observe(duration)
	if err != nil {
		observability.RefreshRunsTotal.WithLabelValues(job.Name, "failure").Inc()
		s.logger.Warn("refresh failed", zap.String("job", job.Name), zap.Error(err))
		return fmt.Errorf("refresh %s: %w", job.Name, err)
	}
	observability.RefreshRunsTotal.WithLabelValues(job.Name, "success").Inc()
	s.logger.Debug("refresh complete", zap.String("job", job.Name), zap.Float64("duration_seconds", duration))
	return nil
}

// RunPeriodic runs job immediately, then on every tick of its interval until ctx is done.
// Failures are logged and do not stop the loop.
func (s *Scheduler) RunPeriodic(ctx context.Context, job Job) error {
	_ = s.RunOnce(ctx, job)
	ticker := s.clock.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			_ = s.RunOnce(ctx, job)
		}
	}
}

// Start launches every registered job in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.logger.Info("refresh job started", zap.String("job", job.Name), zap.Duration("interval", job.Interval))
			_ = s.RunPeriodic(ctx, job)
		}()
	}
}

// Wait blocks until every started job has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
