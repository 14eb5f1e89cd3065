// Package logging configures log/slog for the server and the CLI.
//
// Request-scoped loggers pick up chi's request id so every entry written
// while serving a request can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// New builds a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
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

// Setup installs a logger built by New as the slog default. The server
// logs to stdout; CLI commands log to stderr so stdout stays parseable.
func Setup(w io.Writer, level, format string) {
	slog.SetDefault(New(w, level, format))
}

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

// FromContext returns the default logger, tagged with the chi request id
// when ctx carries one.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns a request-scoped logger with extra fields attached.
//
//	log := logging.WithFields(ctx, "file", name, "dry_run", dryRun)
//	log.Info("import started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
