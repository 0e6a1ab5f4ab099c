package logging

import (
	"context"
	"log/slog"
	"time"

	"watchtag/internal/services"
)

// Shared attribute keys so log output stays greppable across packages.
const (
	FieldComponent = "component"
	FieldSweepID   = "sweep_id"
	FieldItemID    = "item_id"
	FieldProvider  = "provider"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// WithContext copies the sweep correlation values carried on ctx onto the
// logger, so call sites deep in a sweep log with the same identifiers the
// orchestrator annotated the context with.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	if id, ok := services.SweepIDFromContext(ctx); ok {
		logger = logger.With(String(FieldSweepID, id))
	}
	if id, ok := services.ItemIDFromContext(ctx); ok {
		logger = logger.With(String(FieldItemID, id))
	}
	if phase, ok := services.PhaseFromContext(ctx); ok {
		logger = logger.With(String("phase", phase))
	}
	return logger
}

// WithComponent tags a logger with the component prefix used by the console
// handler.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}
