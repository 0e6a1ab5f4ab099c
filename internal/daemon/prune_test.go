package daemon

import (
	"context"
	"testing"
	"time"

	"watchtag/internal/history"
	"watchtag/internal/sweep"
	"watchtag/internal/testsupport"
)

func seedRun(t *testing.T, store *history.Store, runID string, started time.Time) {
	t.Helper()
	err := store.RecordReport(context.Background(), sweep.Report{
		RunID:      runID,
		Status:     sweep.StatusDone,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("seed run %s: %v", runID, err)
	}
}

func TestStartPrunesOldHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := history.Open(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	now := time.Now().UTC()
	seedRun(t, store, "stale-run", now.Add(-72*time.Hour))
	seedRun(t, store, "fresh-run", now)
	if err := store.Close(); err != nil {
		t.Fatalf("close history: %v", err)
	}

	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.historyRetention = 24 * time.Hour
	d.historyKeep = 1
	defer d.Close()

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	runs, err := d.store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "fresh-run" {
		t.Fatalf("runs after start = %+v", runs)
	}
}
