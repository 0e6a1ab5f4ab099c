package history_test

import (
	"context"
	"testing"
	"time"

	"watchtag/internal/history"
	"watchtag/internal/sweep"
)

func mustOpen(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(runID string, started time.Time) sweep.Report {
	return sweep.Report{
		RunID:          runID,
		Status:         sweep.StatusDone,
		StartedAt:      started,
		FinishedAt:     started.Add(2 * time.Minute),
		ItemsTotal:     120,
		ItemsProcessed: 120,
		ItemsTagged:    14,
		ItemsSkipped:   105,
		ItemsFailed:    1,
		TagsAdded:      17,
		MembersQueued:  9,
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC)
	if err := store.RecordReport(ctx, sampleReport("run-1", base)); err != nil {
		t.Fatalf("RecordReport failed: %v", err)
	}
	if err := store.RecordReport(ctx, sampleReport("run-2", base.Add(24*time.Hour))); err != nil {
		t.Fatalf("RecordReport failed: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Fatalf("expected most recent first, got %q", runs[0].RunID)
	}
	if runs[0].ItemsTagged != 14 || runs[0].MembersQueued != 9 {
		t.Fatalf("unexpected run: %#v", runs[0])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("started_at round trip mismatch: %v", runs[1].StartedAt)
	}
}

func TestRecordRejectsMissingRunID(t *testing.T) {
	store := mustOpen(t)
	if err := store.RecordReport(context.Background(), sweep.Report{}); err == nil {
		t.Fatal("expected error for report without run id")
	}
}

func TestLatest(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil on empty store, got %#v", latest)
	}

	base := time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC)
	if err := store.RecordReport(ctx, sampleReport("run-1", base)); err != nil {
		t.Fatalf("RecordReport failed: %v", err)
	}
	latest, err = store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.RunID != "run-1" {
		t.Fatalf("unexpected latest: %#v", latest)
	}
}

func TestPruneKeepsNewestRows(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-90 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	if err := store.RecordReport(ctx, sampleReport("old-run", old)); err != nil {
		t.Fatalf("RecordReport failed: %v", err)
	}
	if err := store.RecordReport(ctx, sampleReport("recent-run", recent)); err != nil {
		t.Fatalf("RecordReport failed: %v", err)
	}

	deleted, err := store.Prune(ctx, 30*24*time.Hour, 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted row, got %d", deleted)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "recent-run" {
		t.Fatalf("unexpected survivors: %#v", runs)
	}
}
