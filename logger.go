package pulse

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/researchwiseai/pulse-go/shape"
)

// Logger wraps slog.Logger with pulse-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRunID tags every record with the generation run ID.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", id)),
	}
}

// WithShape tags every record with a matrix shape.
func (l *Logger) WithShape(s shape.Shape) *Logger {
	return &Logger{
		Logger: l.With(slog.String("shape", s.String())),
	}
}

// LogGenerate logs the outcome of a generation run.
func (l *Logger) LogGenerate(ctx context.Context, runID string, cells, failed, skipped int, d time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("run_id", runID),
		slog.Int("cells", cells),
		slog.Int("failed", failed),
		slog.Int("skipped", skipped),
		slog.Duration("duration", d),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.LogAttrs(ctx, slog.LevelError, "generate failed", attrs...)
		return
	}
	l.LogAttrs(ctx, slog.LevelInfo, "generate completed", attrs...)
}

// LogCellFailure logs one failed cell of a generation run.
func (l *Logger) LogCellFailure(ctx context.Context, runID string, coords []int, err error) {
	l.LogAttrs(ctx, slog.LevelWarn, "cell failed",
		slog.String("run_id", runID),
		slog.Any("coords", coords),
		slog.String("error", err.Error()),
	)
}

// LogSave logs persisting a matrix.
func (l *Logger) LogSave(ctx context.Context, name string, bytes int, err error) {
	if err != nil {
		l.LogAttrs(ctx, slog.LevelError, "save failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return
	}
	l.LogAttrs(ctx, slog.LevelDebug, "matrix saved",
		slog.String("name", name),
		slog.Int("bytes", bytes),
	)
}

// LogLoad logs loading a persisted matrix.
func (l *Logger) LogLoad(ctx context.Context, name string, s shape.Shape, err error) {
	if err != nil {
		l.LogAttrs(ctx, slog.LevelError, "load failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return
	}
	l.LogAttrs(ctx, slog.LevelDebug, "matrix loaded",
		slog.String("name", name),
		slog.String("shape", s.String()),
	)
}
