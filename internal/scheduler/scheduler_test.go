package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsBadCron(t *testing.T) {
	if _, err := New("not a cron", func(context.Context) error { return nil }, nil); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestNewRequiresRunFunc(t *testing.T) {
	if _, err := New("0 3 * * *", nil, nil); err == nil {
		t.Fatal("expected error for nil run func")
	}
}

func TestTriggerRunsOnce(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	sched, err := New("", func(context.Context) error {
		calls.Add(1)
		close(done)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Trigger(); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestTriggerRejectsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	sched, err := New("", func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Trigger(); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	<-started

	if !sched.Running() {
		t.Fatal("Running() should report true during a sweep")
	}
	if err := sched.Trigger(); !errors.Is(err, ErrSweepActive) {
		t.Fatalf("overlapping trigger err = %v, want ErrSweepActive", err)
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for sched.Running() {
		select {
		case <-deadline:
			t.Fatal("sweep never finished")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTriggerBeforeStart(t *testing.T) {
	sched, err := New("", func(context.Context) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sched.Trigger(); err == nil {
		t.Fatal("expected error before Start")
	}
}

func TestStopCancelsRunContext(t *testing.T) {
	canceled := make(chan struct{})
	started := make(chan struct{})
	sched, err := New("", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sched.Trigger(); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	<-started
	sched.Stop()

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("run context never canceled by Stop")
	}
}
