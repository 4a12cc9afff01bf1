package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one schedulable pipeline run.
type Runner func(ctx context.Context) error

type Scheduler struct {
	run      Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(run Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		timeout:  15 * time.Minute,
		logger:   logger,
	}
}

// Start runs once immediately, then on every tick until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.run(runCtx); err != nil {
		s.logger.Error("scheduled run failed", "error", err)
	}
}
