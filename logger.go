package kmcluster

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kmcluster-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithDataset adds the dataset object name to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, records int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"records", records,
			"duration", duration,
		)
	}
}

// LogTrain logs a training run.
func (l *Logger) LogTrain(ctx context.Context, records, degenerate, skipped int, duration time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "training failed",
			"records", records,
			"error", err,
		)
	case skipped > 0:
		l.WarnContext(ctx, "training completed with skipped records",
			"records", records,
			"skipped", skipped,
			"degenerate", degenerate,
			"duration", duration,
		)
	default:
		l.InfoContext(ctx, "training completed",
			"records", records,
			"degenerate", degenerate,
			"duration", duration,
		)
	}
}

// LogAssign logs an online assignment.
func (l *Logger) LogAssign(ctx context.Context, id string, cluster, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "assign failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "assign completed",
			"id", id,
			"cluster", cluster,
			"matches", matches,
		)
	}
}

// LogSave logs a dataset save.
func (l *Logger) LogSave(ctx context.Context, records int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"records", records,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "dataset saved",
			"records", records,
			"duration", duration,
		)
	}
}
