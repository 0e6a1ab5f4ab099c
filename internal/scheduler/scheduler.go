package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"watchtag/internal/logging"
)

// ErrSweepActive is returned when a sweep is requested while one is already
// running.
var ErrSweepActive = errors.New("a sweep is already running")

// RunFunc executes one sweep.
type RunFunc func(ctx context.Context) error

// Scheduler triggers sweeps on a cron schedule and accepts manual triggers.
// Overlapping runs are skipped: there is never more than one sweep in flight.
type Scheduler struct {
	cronSpec string
	run      RunFunc
	logger   *slog.Logger

	cron    *cron.Cron
	running atomic.Bool

	mu      sync.Mutex
	started bool

	baseCtx context.Context
	cancel  context.CancelFunc
}

// New builds a Scheduler. cronSpec uses the standard five-field syntax; an
// empty spec disables scheduled runs but still allows manual triggers.
func New(cronSpec string, run RunFunc, logger *slog.Logger) (*Scheduler, error) {
	if run == nil {
		return nil, errors.New("scheduler: run function required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cronSpec != "" {
		if _, err := cron.ParseStandard(cronSpec); err != nil {
			return nil, errors.New("scheduler: invalid cron expression: " + err.Error())
		}
	}
	return &Scheduler{
		cronSpec: cronSpec,
		run:      run,
		logger:   logging.WithComponent(logger, "scheduler"),
	}, nil
}

// Start begins scheduled execution. Runs launched by the cron schedule use a
// context derived from ctx; canceling ctx cancels any in-flight sweep.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler: already started")
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.started = true

	if s.cronSpec == "" {
		s.logger.Info("scheduled sweeps disabled")
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cronSpec, s.scheduledRun); err != nil {
		s.started = false
		s.cancel()
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "cron", s.cronSpec)
	return nil
}

// Stop halts scheduled execution and cancels any in-flight sweep. It does not
// wait for the sweep goroutine to observe the cancellation.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	s.cancel()
	s.started = false
	s.logger.Info("scheduler stopped")
}

// Running reports whether a sweep is currently in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Trigger starts a sweep immediately in a new goroutine. It returns
// ErrSweepActive when one is already running and an error when the scheduler
// has not been started.
func (s *Scheduler) Trigger() error {
	s.mu.Lock()
	ctx := s.baseCtx
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("scheduler: not started")
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrSweepActive
	}
	go s.execute(ctx, "manual")
	return nil
}

func (s *Scheduler) scheduledRun() {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("skipping scheduled sweep, previous run still active")
		return
	}
	s.execute(ctx, "scheduled")
}

func (s *Scheduler) execute(ctx context.Context, trigger string) {
	defer s.running.Store(false)
	s.logger.Info("sweep triggered", "trigger", trigger)
	if err := s.run(ctx); err != nil {
		s.logger.Error("sweep run failed", "trigger", trigger, logging.Error(err))
	}
}
