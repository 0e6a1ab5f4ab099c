package collections

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"watchtag/internal/logging"
	"watchtag/internal/providers"
)

// Resolver builds a sweep-scoped Resolution from the configured rules. Only
// rules flagged CreateCollection get a backing collection.
type Resolver struct {
	service Service
	logger  *slog.Logger
}

// NewResolver creates a Resolver. A nil logger falls back to a no-op logger.
func NewResolver(service Service, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		service: service,
		logger:  logging.WithComponent(logger, "collections"),
	}
}

// Resolve looks up or creates the collection for every eligible rule. Any
// failure is fatal for the caller; a sweep that cannot prepare its
// collections must not proceed to tagging.
func (r *Resolver) Resolve(ctx context.Context, rules []providers.Rule) (*Resolution, error) {
	resolution := &Resolution{
		collectionIDs: make(map[string]string),
		pending:       make(map[string][]string),
		queued:        make(map[string]map[string]struct{}),
	}
	for _, rule := range rules {
		if !rule.CreateCollection {
			continue
		}
		id, found, err := r.service.FindByName(ctx, rule.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve collection %q: %w", rule.Name, err)
		}
		if !found {
			id, err = r.service.Create(ctx, rule.Name)
			if err != nil {
				return nil, fmt.Errorf("create collection %q: %w", rule.Name, err)
			}
			r.logger.Info("created collection", "name", rule.Name, "collection_id", id)
		}
		resolution.collectionIDs[strings.ToLower(rule.Name)] = id
	}
	return resolution, nil
}

// Resolution holds the resolved collection IDs for one sweep and accumulates
// membership additions until Flush. Not safe for concurrent use.
type Resolution struct {
	collectionIDs map[string]string
	pending       map[string][]string
	queued        map[string]map[string]struct{}
}

// CollectionFor returns the resolved collection ID for a rule name, matched
// case-insensitively.
func (res *Resolution) CollectionFor(ruleName string) (string, bool) {
	id, ok := res.collectionIDs[strings.ToLower(ruleName)]
	return id, ok
}

// Queue records an item for addition to the rule's collection. Items without
// a resolved collection and duplicate queues are ignored.
func (res *Resolution) Queue(ruleName, itemID string) {
	id, ok := res.CollectionFor(ruleName)
	if !ok || itemID == "" {
		return
	}
	seen, ok := res.queued[id]
	if !ok {
		seen = make(map[string]struct{})
		res.queued[id] = seen
	}
	if _, dup := seen[itemID]; dup {
		return
	}
	seen[itemID] = struct{}{}
	res.pending[id] = append(res.pending[id], itemID)
}

// PendingCount reports how many membership additions are queued across all
// collections.
func (res *Resolution) PendingCount() int {
	total := 0
	for _, ids := range res.pending {
		total += len(ids)
	}
	return total
}

// Flush issues one batched add-members call per collection with queued items.
// A failed batch is logged and skipped; remaining collections still flush.
// Flushed sets are cleared even on failure so a retry never double-submits.
func (res *Resolution) Flush(ctx context.Context, service Service, logger *slog.Logger) error {
	logger = logging.WithContext(ctx, logger)

	ids := make([]string, 0, len(res.pending))
	for id := range res.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var firstErr error
	for _, collectionID := range ids {
		items := res.pending[collectionID]
		if len(items) == 0 {
			continue
		}
		if err := service.AddMembers(ctx, collectionID, items); err != nil {
			logger.Error("collection membership update failed",
				"collection_id", collectionID,
				"item_count", len(items),
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			logger.Info("collection membership updated",
				"collection_id", collectionID,
				"item_count", len(items))
		}
		delete(res.pending, collectionID)
		delete(res.queued, collectionID)
	}
	return firstErr
}
