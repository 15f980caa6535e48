// Package logging builds the slog loggers used across the analysis service.
// Output is JSON on stdout so the request log and the provider call log can
// be shipped as-is; WithRequestID ties both to the X-Request-ID of the
// request that triggered them.
package logging

import (
	"context"
	"log/slog"
	"os"

	"credible-backend/internal/handler/http/requestid"
)

// NewLogger creates the process-wide JSON logger. LOG_LEVEL=debug lowers the
// level; anything else runs at info. Source locations are attached so a
// masked "internal server error" in a response can still be traced to the
// line that logged the detail.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger is the human-readable variant for local development.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOptions()))
}

func handlerOptions() *slog.HandlerOptions {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	return &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel <= slog.LevelWarn,
	}
}

// WithRequestID returns a logger carrying the request ID from the context.
// A context without one (startup, background flush) leaves the logger as-is.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// WithFields returns a new logger with additional structured fields.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext retrieves the logger from the context, falling back to the
// default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
