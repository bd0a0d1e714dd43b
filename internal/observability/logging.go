// Package observability carries per-build logging context (build ID, stage,
// project revision) through context.Context so every log line of one build
// can be correlated.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/skypages/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID  string
	Stage    string
	Revision string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithRevision adds the project revision to the context.
func WithRevision(ctx context.Context, revision string) context.Context {
	lc := extractLogContext(ctx)
	lc.Revision = revision
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Attrs returns slog attributes from the context's LogContext.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Revision != "" {
		attrs = append(attrs, logfields.Revision(lc.Revision))
	}
	return attrs
}

// Log writes msg to logger at level, prefixed with the context attributes.
// A nil logger falls back to slog.Default().
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	all := append(Attrs(ctx), attrs...)
	logger.LogAttrs(ctx, level, msg, all...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
