package logger

import (
	"log/slog"
	"time"
)

// LogQuery logs a statement issued by the table gateway. Successful
// statements are logged at debug level since every message produces several.
func LogQuery(operation, table string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", operation),
		slog.String("table", table),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Debug("Query executed", attrs...)
	}
}

// LogTask logs the outcome of one run of a periodic job.
func LogTask(code string, duration time.Duration, err error, attrs ...any) {
	base := []any{
		slog.String("type", "task"),
		slog.String("name", code),
		slog.Duration("took", duration),
	}
	if err != nil {
		slog.Error("Task failed", append(append(base, slog.Any("error", err)), attrs...)...)
		return
	}
	slog.Info("Task finished", append(base, attrs...)...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
