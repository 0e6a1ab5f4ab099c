package services

import (
	"context"
	"testing"
)

func TestContextAnnotations(t *testing.T) {
	ctx := context.Background()

	if _, ok := SweepIDFromContext(ctx); ok {
		t.Fatal("expected no sweep id on bare context")
	}

	ctx = WithSweepID(ctx, "run-1")
	ctx = WithItemID(ctx, "item-42")
	ctx = WithPhase(ctx, "running")

	if id, ok := SweepIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("sweep id: got %q ok=%v", id, ok)
	}
	if id, ok := ItemIDFromContext(ctx); !ok || id != "item-42" {
		t.Fatalf("item id: got %q ok=%v", id, ok)
	}
	if phase, ok := PhaseFromContext(ctx); !ok || phase != "running" {
		t.Fatalf("phase: got %q ok=%v", phase, ok)
	}
}

func TestEmptyAnnotationsAreNoops(t *testing.T) {
	ctx := context.Background()
	if WithSweepID(ctx, "") != ctx {
		t.Fatal("empty sweep id should return original context")
	}
	if WithItemID(ctx, "") != ctx {
		t.Fatal("empty item id should return original context")
	}
	if WithPhase(ctx, "") != ctx {
		t.Fatal("empty phase should return original context")
	}
}
