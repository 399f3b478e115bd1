package fvecmat

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fvecmat-specific helpers.
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
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithPath adds the container path to every record.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogOpen logs the result of opening a container.
func (l *Logger) LogOpen(ctx context.Context, bits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"bits", bits,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "container opened",
			"bits", bits,
		)
	}
}

// LogWrite logs a block write.
func (l *Logger) LogWrite(ctx context.Context, vectors, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"vectors", vectors,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "block written",
			"vectors", vectors,
			"bytes", bytes,
		)
	}
}

// LogProgress logs the running totals of a session.
func (l *Logger) LogProgress(ctx context.Context, st Stats) {
	l.InfoContext(ctx, "progress",
		"vectors", st.Vectors,
		"payload_bytes", st.PayloadBytes,
		"nonzeros", st.NonZeros,
	)
}

// LogClose logs the finalization of a container.
func (l *Logger) LogClose(ctx context.Context, st Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"vectors", st.Vectors,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "container closed",
			"vectors", st.Vectors,
			"payload_bytes", st.PayloadBytes,
			"distinct_dims", st.DistinctDims,
		)
	}
}

// LogUpload logs the upload of a finished container.
func (l *Logger) LogUpload(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "container uploaded",
			"name", name,
			"size", size,
		)
	}
}
