package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"watchtag/internal/catalog"
	"watchtag/internal/collections"
	"watchtag/internal/logging"
	"watchtag/internal/providers"
	"watchtag/internal/services"
	"watchtag/internal/tmdb"
)

// Status is the lifecycle phase a sweep run ended in.
type Status string

const (
	StatusNotConfigured Status = "not_configured"
	StatusPreparing     Status = "preparing"
	StatusRunning       Status = "running"
	StatusFinalizing    Status = "finalizing"
	StatusDone          Status = "done"
	StatusAborted       Status = "aborted"
)

// progressLogInterval controls how often the running phase emits a progress
// log line.
const progressLogInterval = 100

// Report summarizes one sweep run.
type Report struct {
	RunID          string
	Status         Status
	StartedAt      time.Time
	FinishedAt     time.Time
	ItemsTotal     int
	ItemsProcessed int
	ItemsTagged    int
	ItemsSkipped   int
	ItemsFailed    int
	TagsAdded      int
	MembersQueued  int
}

// ProgressFunc receives the fractional sweep progress in [0,100] after every
// processed item.
type ProgressFunc func(percent float64)

// Options wires a Sweeper. Rules and Kinds are snapshotted at construction so
// a sweep always runs against one consistent configuration.
type Options struct {
	Catalog     catalog.Store
	Fetcher     tmdb.AvailabilityFetcher
	Collections collections.Service
	Rules       []providers.Rule

	// Kinds filters the catalog snapshot; empty means the default eligible
	// kinds (Movie, Series, Episode).
	Kinds []string

	// RemoteConfigured reports whether a lookup credential is present. A
	// sweep without one terminates in NotConfigured with no side effects.
	RemoteConfigured bool

	Logger   *slog.Logger
	Progress ProgressFunc
}

// Sweeper runs full-catalog tag synchronization sweeps. A Sweeper is safe to
// reuse across runs but must not run concurrently with itself.
type Sweeper struct {
	catalog     catalog.Store
	fetcher     tmdb.AvailabilityFetcher
	collections collections.Service
	resolver    *collections.Resolver
	rules       []providers.Rule
	kinds       []string
	configured  bool
	logger      *slog.Logger
	progress    ProgressFunc
}

// New validates the wiring and builds a Sweeper.
func New(opts Options) (*Sweeper, error) {
	if opts.Catalog == nil {
		return nil, errors.New("sweep: catalog store required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("sweep: availability fetcher required")
	}
	if opts.Collections == nil {
		return nil, errors.New("sweep: collection service required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "sweep")

	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []string{catalog.KindMovie, catalog.KindSeries, catalog.KindEpisode}
	}

	return &Sweeper{
		catalog:     opts.Catalog,
		fetcher:     opts.Fetcher,
		collections: opts.Collections,
		resolver:    collections.NewResolver(opts.Collections, logger),
		rules:       opts.Rules,
		kinds:       kinds,
		configured:  opts.RemoteConfigured,
		logger:      logger,
		progress:    opts.Progress,
	}, nil
}

// Run executes one sweep. The returned Report is valid even when err is
// non-nil; err is set only for failures that ended the sweep early.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		report.FinishedAt = time.Now().UTC()
	}()
	ctx = services.WithSweepID(ctx, report.RunID)
	logger := s.logger.With(logging.FieldSweepID, report.RunID)

	if !s.configured || len(s.rules) == 0 {
		report.Status = StatusNotConfigured
		logger.Warn("sweep not configured, skipping",
			"credential_present", s.configured,
			"rule_count", len(s.rules))
		return report, nil
	}

	report.Status = StatusPreparing
	resolution, err := s.resolver.Resolve(services.WithPhase(ctx, "preparing"), s.rules)
	if err != nil {
		report.Status = StatusAborted
		return report, services.Wrap(services.ErrCollection, "sweep", "prepare", "resolving collections", err)
	}

	report.Status = StatusRunning
	runCtx := services.WithPhase(ctx, "running")
	result, err := s.catalog.Items(runCtx, catalog.ItemsQuery{Kinds: s.kinds})
	if err != nil {
		report.Status = StatusAborted
		return report, services.Wrap(services.ErrCatalog, "sweep", "snapshot", "listing catalog items", err)
	}
	report.ItemsTotal = len(result.Items)
	logger.Info("sweep started",
		"items", report.ItemsTotal,
		"rules", len(s.rules))

	for index, item := range result.Items {
		if ctx.Err() != nil {
			report.Status = StatusAborted
			logger.Warn("sweep canceled",
				"processed", report.ItemsProcessed,
				"discarded_members", resolution.PendingCount())
			return report, services.Wrap(services.ErrCanceled, "sweep", "run", "sweep canceled", ctx.Err())
		}

		switch s.processItem(runCtx, item, resolution, &report) {
		case outcomeTagged:
			report.ItemsTagged++
		case outcomeSkipped:
			report.ItemsSkipped++
		case outcomeFailed:
			report.ItemsFailed++
		}
		report.ItemsProcessed++

		done := index + 1
		s.reportProgress(done, report.ItemsTotal)
		if done%progressLogInterval == 0 {
			logger.Info("sweep progress",
				"processed", done,
				"total", report.ItemsTotal,
				"tagged", report.ItemsTagged)
		}
	}

	report.Status = StatusFinalizing
	report.MembersQueued = resolution.PendingCount()
	// Flush failures are logged per collection; the sweep still completes.
	_ = resolution.Flush(services.WithPhase(ctx, "finalizing"), s.collections, s.logger)

	report.Status = StatusDone
	logger.Info("sweep completed",
		"processed", report.ItemsProcessed,
		"tagged", report.ItemsTagged,
		"failed", report.ItemsFailed,
		"members_queued", report.MembersQueued,
		"duration", time.Since(report.StartedAt).Round(time.Millisecond))
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeTagged
	outcomeFailed
)

func (s *Sweeper) processItem(ctx context.Context, item catalog.Item, resolution *collections.Resolution, report *Report) (result outcome) {
	ctx = services.WithItemID(ctx, item.ID)
	logger := logging.WithContext(ctx, s.logger)
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("item processing panicked",
				"name", item.Name,
				"panic", fmt.Sprint(recovered))
			result = outcomeFailed
		}
	}()

	externalID, ok := item.ExternalID(catalog.TmdbIDKey)
	if !ok {
		return outcomeSkipped
	}

	remoteIDs, err := s.fetcher.Availability(ctx, contentTypeFor(item.Kind), externalID)
	if err != nil {
		// Degrades to "no providers for this item"; the sweep moves on.
		logger.Warn("availability lookup failed",
			"name", item.Name,
			logging.Error(err))
		return outcomeSkipped
	}
	if len(remoteIDs) == 0 {
		return outcomeSkipped
	}

	matched := providers.Match(remoteIDs, s.rules)
	if len(matched) == 0 {
		return outcomeSkipped
	}

	item.Tags = append([]string(nil), item.Tags...)
	before := len(item.Tags)
	for _, name := range matched {
		resolution.Queue(name, item.ID)
		tag := providers.Tag(name)
		if item.HasTag(tag) {
			continue
		}
		item.Tags = append(item.Tags, tag)
		report.TagsAdded++
	}
	if len(item.Tags) == before {
		return outcomeSkipped
	}

	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		logger.Error("item update failed",
			"name", item.Name,
			logging.Error(err))
		return outcomeFailed
	}
	logger.Debug("item tagged",
		"name", item.Name,
		"matched", matched)
	return outcomeTagged
}

func (s *Sweeper) reportProgress(done, total int) {
	if s.progress == nil || total == 0 {
		return
	}
	s.progress(float64(done) / float64(total) * 100)
}

// contentTypeFor maps a catalog kind to the lookup service vocabulary.
// Unrecognized kinds fall back to movie.
func contentTypeFor(kind string) string {
	switch kind {
	case catalog.KindSeries, catalog.KindEpisode:
		return tmdb.ContentTypeTV
	default:
		return tmdb.ContentTypeMovie
	}
}
