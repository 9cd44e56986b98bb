package hnsw

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with index-specific context, providing
// structured logging with consistent field names across operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithRowKey adds a row-key field to the logger.
func (l *Logger) WithRowKey(rowKey int64) *Logger {
	return &Logger{Logger: l.Logger.With("row_key", rowKey)}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, rowKey int64, layer int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed", "row_key", rowKey, "error", err)
		return
	}
	l.DebugContext(ctx, "insert completed", "row_key", rowKey, "layer", layer)
}

// LogErase logs an erase operation.
func (l *Logger) LogErase(ctx context.Context, rowKey int64, found bool) {
	l.DebugContext(ctx, "erase completed", "row_key", rowKey, "found", found)
}

// LogSearch logs a k-NN search operation.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed", "k", k, "error", err)
		return
	}
	l.DebugContext(ctx, "search completed", "k", k, "results", resultsFound)
}

// LogRadiusSearch logs a radius search operation.
func (l *Logger) LogRadiusSearch(ctx context.Context, rmax float64, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "radius search failed", "rmax", rmax, "error", err)
		return
	}
	l.DebugContext(ctx, "radius search completed", "rmax", rmax, "results", resultsFound)
}

// LogPersist logs a save/load of the persisted root.
func (l *Logger) LogPersist(ctx context.Context, op string, nodeCount int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persistence failed", "op", op, "nodes", nodeCount, "error", err)
		return
	}
	l.InfoContext(ctx, "persistence completed", "op", op, "nodes", nodeCount)
}

// LogRebuild logs a full index rebuild.
func (l *Logger) LogRebuild(ctx context.Context, nodeCount int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rebuild failed", "nodes", nodeCount, "error", err)
		return
	}
	l.InfoContext(ctx, "rebuild completed", "nodes", nodeCount)
}
