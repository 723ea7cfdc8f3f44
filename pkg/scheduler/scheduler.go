package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a cron schedule. A tick that arrives while the
// previous run is still in progress is skipped.
type Scheduler struct {
	name     string
	schedule string
	job      Job
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// New creates a scheduler for job. Standard five-field expressions and
// descriptors such as "@hourly" or "@every 5m" are accepted. An empty
// schedule disables the scheduler.
func New(name, schedule string, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		name:     name,
		schedule: schedule,
		job:      job,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "scheduler", "job", name),
	}
}

// Validate reports whether schedule is a valid cron expression. The empty
// schedule is valid.
func Validate(schedule string) error {
	if schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Start schedules the job. It returns immediately; the scheduler stops when
// ctx is cancelled or Stop is called.
//
// Common expressions:
//   - "@every 1m"    - Every minute
//   - "*/5 * * * *"  - Every five minutes
//   - "0 3 * * *"    - Daily at 3 AM
//
// If the schedule is empty, Start does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("Schedule not configured, skipping")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler %s already running", s.name)
	}
	if err := Validate(s.schedule); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", s.name, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunNow runs the job once on the calling goroutine.
func (s *Scheduler) RunNow(ctx context.Context) error {
	start := time.Now()
	if err := s.job(ctx); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.logger.Debug("Job completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.RunNow(ctx); err != nil {
		s.logger.Error("Scheduled job failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
