// Package logging provides structured logging configuration using log/slog.
//
// Loggers obtained through FromContext carry chi's request ID and, while an
// import is running, the import batch ID, so every line written for one
// upload can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const importIDKey ctxKey = iota

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. The CLI uses it to log to stderr while
// CSV output goes to stdout.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ContextWithImportID tags ctx with the ID of the import batch being processed.
func ContextWithImportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, importIDKey, id)
}

// ImportIDFromContext returns the import batch ID stored by ContextWithImportID.
func ImportIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(importIDKey).(string)
	return id
}

// FromContext returns a logger enriched with request context.
//
// Usage:
//
//	func handleImport(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.FromContext(r.Context())
//	    logger.Info("import received", "file", name)
//	}
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	// Chi's RequestID middleware stores the ID in context
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if importID := ImportIDFromContext(ctx); importID != "" {
		logger = logger.With("import_id", importID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	importLogger := logging.WithFields(ctx, "file", name)
//	importLogger.Info("import started")
//	// ... later ...
//	importLogger.Info("import completed", "inserted", result.Inserted)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
