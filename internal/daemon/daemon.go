package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"watchtag/internal/api"
	"watchtag/internal/catalog"
	"watchtag/internal/collections"
	"watchtag/internal/config"
	"watchtag/internal/history"
	"watchtag/internal/logging"
	"watchtag/internal/notifications"
	"watchtag/internal/providers"
	"watchtag/internal/scheduler"
	"watchtag/internal/services"
	"watchtag/internal/sweep"
	"watchtag/internal/tmdb"
)

// Daemon coordinates the scheduler, the HTTP API, and sweep persistence, and
// enforces single-instance execution via a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	rules    []providers.Rule
	store    *history.Store
	notifier notifications.Service
	sched    *scheduler.Scheduler
	provider *api.ProviderService

	lockPath string
	lock     *flock.Flock

	historyRetention time.Duration
	historyKeep      int

	running atomic.Bool
	apiSrv  *apiServer
}

// Sweep-run history grows one row per run; old rows beyond the retention
// window are pruned at daemon start, always keeping the most recent runs.
const (
	defaultHistoryRetention = 90 * 24 * time.Hour
	defaultHistoryKeep      = 200
)

// LockPath returns the lock file that serializes sweep execution between the
// daemon and foreground CLI sweeps.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "watchtagd.lock")
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	SweepActive   bool
	RuleCount     int
	Region        string
	HistoryDBPath string
	LockFilePath  string
	LastRun       *history.Run
}

// New wires a daemon from configuration. The returned daemon owns the history
// store and closes it on Close.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.APIKey)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	collectionSvc, err := collections.NewHTTPService(cfg.Catalog.URL, cfg.Catalog.APIKey)
	if err != nil {
		return nil, fmt.Errorf("collection service: %w", err)
	}
	var fetcher tmdb.AvailabilityFetcher = tmdb.Disabled{}
	if cfg.TMDB.APIKey != "" {
		fetcher, err = tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Region)
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
	}

	rules := providers.RulesFromConfig(cfg)
	sweeper, err := sweep.New(sweep.Options{
		Catalog:          catalogClient,
		Fetcher:          fetcher,
		Collections:      collectionSvc,
		Rules:            rules,
		Kinds:            cfg.Catalog.ItemKinds,
		RemoteConfigured: cfg.SweepConfigured(),
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("sweeper: %w", err)
	}

	store, err := history.Open(cfg.Paths.LogDir)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	notifier := notifications.NewService(cfg)

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		rules:    rules,
		store:    store,
		notifier: notifier,
		provider: api.NewProviderService(rules, collectionSvc, catalogClient),
		lockPath: LockPath(cfg),

		historyRetention: defaultHistoryRetention,
		historyKeep:      defaultHistoryKeep,
	}
	d.lock = flock.New(d.lockPath)

	cronSpec := ""
	if cfg.Schedule.Enabled {
		cronSpec = cfg.Schedule.Cron
	}
	d.sched, err = scheduler.New(cronSpec, d.runSweep(sweeper), logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return d, nil
}

// runSweep wraps one sweep execution with notifications and history
// persistence.
func (d *Daemon) runSweep(sweeper *sweep.Sweeper) scheduler.RunFunc {
	return func(ctx context.Context) error {
		if err := d.notifier.NotifySweepStarted(ctx); err != nil {
			d.logger.Warn("sweep start notification failed", logging.Error(err))
		}

		report, runErr := sweeper.Run(ctx)

		// Record whatever we have; aborted and unconfigured runs are history
		// too.
		if report.RunID != "" {
			if err := d.store.RecordReport(context.WithoutCancel(ctx), report); err != nil {
				d.logger.Error("recording sweep run failed", logging.Error(err))
			}
		}
		if runErr != nil {
			// Cancellation is an orderly shutdown, not a fault worth paging on.
			if services.IsFatal(runErr) {
				if err := d.notifier.NotifyError(context.WithoutCancel(ctx), runErr, "sweep"); err != nil {
					d.logger.Warn("error notification failed", logging.Error(err))
				}
			}
			return runErr
		}
		if err := d.notifier.NotifySweepCompleted(ctx, report); err != nil {
			d.logger.Warn("sweep completion notification failed", logging.Error(err))
		}
		return nil
	}
}

// Start acquires the instance lock and launches the scheduler and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another watchtag daemon instance is already running")
	}

	if pruned, err := d.store.Prune(ctx, d.historyRetention, d.historyKeep); err != nil {
		d.logger.Warn("pruning sweep history failed", logging.Error(err))
	} else if pruned > 0 {
		d.logger.Info("pruned sweep history", "runs", pruned)
	}

	if err := d.sched.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start scheduler: %w", err)
	}

	d.apiSrv, err = newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.sched.Stop()
		_ = d.lock.Unlock()
		return fmt.Errorf("api server: %w", err)
	}
	if err := d.apiSrv.start(ctx); err != nil {
		d.sched.Stop()
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("watchtag daemon started", "lock", d.lockPath)
	return nil
}

// Stop halts scheduling and the API server and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.sched.Stop()
	d.apiSrv.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("watchtag daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddr returns the bound API address, or empty when the API is disabled.
func (d *Daemon) APIAddr() string {
	if d.apiSrv == nil || d.apiSrv.listener == nil {
		return ""
	}
	return d.apiSrv.listener.Addr().String()
}

// TriggerSweep starts a sweep immediately unless one is already running.
func (d *Daemon) TriggerSweep() error {
	return d.sched.Trigger()
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		SweepActive:   d.sched.Running(),
		RuleCount:     len(d.rules),
		Region:        d.cfg.TMDB.Region,
		HistoryDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
	}
	if last, err := d.store.Latest(ctx); err == nil {
		status.LastRun = last
	}
	return status
}
