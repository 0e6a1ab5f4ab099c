package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"watchtag/internal/services"
)

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	WithComponent(logger, "sweep").Info("starting", Int("items", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO sweep: starting") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "items=3") {
		t.Fatalf("expected items attr in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be hoisted, got: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedStrings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	logger.Info("tagged", String("title", "The Matrix"))

	if !strings.Contains(buf.String(), `title="The Matrix"`) {
		t.Fatalf("expected quoted title, got: %q", buf.String())
	}
}

func TestWithContextAttachesSweepValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	ctx := services.WithSweepID(context.Background(), "run-1")
	ctx = services.WithItemID(ctx, "item-9")
	ctx = services.WithPhase(ctx, "running")

	WithContext(ctx, logger).Info("tagged")

	line := buf.String()
	for _, want := range []string{"sweep_id=run-1", "item_id=item-9", "phase=running"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %q in line: %q", want, line)
		}
	}
}

func TestWithContextIgnoresBareContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	WithContext(context.Background(), logger).Info("hello")

	if strings.Contains(buf.String(), "sweep_id=") {
		t.Fatalf("unexpected sweep attrs: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != slog.LevelInfo {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
}
