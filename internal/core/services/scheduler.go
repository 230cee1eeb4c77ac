package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driving"
)

// Scheduler triggers sync runs on a fixed interval in serve mode.
// The engine's own run lock keeps invocations from overlapping, so a tick
// that lands while a run is still going is simply skipped.
type Scheduler struct {
	runner driving.SyncRunner
	logger *slog.Logger

	// Internal state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	interval time.Duration
	resume   bool
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Runner   driving.SyncRunner
	Logger   *slog.Logger
	Interval time.Duration // How often to trigger a run (default: 15m)
	Resume   bool          // Pass resume-from-checkpoint to each run
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = 15 * time.Minute
	}

	return &Scheduler{
		runner:   cfg.Runner,
		logger:   logger,
		interval: interval,
		resume:   cfg.Resume,
	}
}

// Start begins the scheduler loop.
// It runs until Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler starting", "interval", s.interval)

	go s.run(ctx)

	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger invokes one sync run and logs the outcome. Lock refusal is not an
// error at this level: another invocation got there first.
func (s *Scheduler) trigger(ctx context.Context) {
	report, err := s.runner.Run(ctx, driving.RunOptions{Resume: s.resume})
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			s.logger.Debug("sync already running, skipping tick")
			return
		}
		s.logger.Error("scheduled sync failed", "error", err)
		return
	}
	s.logger.Info("scheduled sync finished",
		"mode", report.Mode,
		"items", report.ItemCount,
		"failed_pages", report.FailedPages,
	)
}
