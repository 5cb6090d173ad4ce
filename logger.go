package binvec

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with binvec-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithStage adds a stage field to the logger.
func (l *Logger) WithStage(stage Stage) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", string(stage)),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogLoad logs the outcome of reading an input dump.
func (l *Logger) LogLoad(ctx context.Context, size int64, shape [2]int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "loaded",
		"size", humanize.IBytes(uint64(size)),
		"rows", shape[0],
		"cols", shape[1],
	)
}

// LogSave logs the outcome of writing an output array.
func (l *Logger) LogSave(ctx context.Context, name string, written int64, crc uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"output", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "saved",
		"output", name,
		"size", humanize.IBytes(uint64(written)),
		"crc32c", crc,
	)
}
