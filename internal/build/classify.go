package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/skypages/internal/bundler"
	"git.home.luguber.info/inful/skypages/internal/logfields"
	"git.home.luguber.info/inful/skypages/internal/observability"
)

// Classify turns a bundler completion into a Result. A non-nil fatal error
// wins and stats are not inspected at all. Otherwise errors and warnings are
// both carried; errors take precedence for the outcome.
func Classify(fatal error, stats bundler.Stats) Result {
	if fatal != nil {
		return Result{Outcome: OutcomeFatal, Fatal: fatal}
	}
	if stats == nil {
		return Result{Outcome: OutcomeClean}
	}

	report := stats.ToJSON()
	res := Result{Errors: report.Errors, Warnings: report.Warnings}
	switch {
	case report.HasErrors():
		res.Outcome = OutcomeErrors
	case report.HasWarnings():
		res.Outcome = OutcomeWarnings
	default:
		res.Outcome = OutcomeClean
	}
	return res
}

// Reporter logs classified results.
type Reporter struct {
	logger *slog.Logger
}

// NewReporter creates a Reporter. A nil logger uses slog.Default().
func NewReporter(logger *slog.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs r. A fatal result is logged once at Error level. Any other
// result logs its errors and warnings, when present, followed by exactly one
// Info completion line.
func (rp *Reporter) Report(ctx context.Context, r Result) {
	if r.Outcome == OutcomeFatal {
		observability.Log(ctx, rp.logger, slog.LevelError, "Build failed", logfields.Error(r.Fatal))
		return
	}

	if len(r.Errors) > 0 {
		observability.Log(ctx, rp.logger, slog.LevelError, "Bundler reported errors",
			logfields.Count(len(r.Errors)), logfields.Errors(r.Errors))
	}
	if len(r.Warnings) > 0 {
		observability.Log(ctx, rp.logger, slog.LevelWarn, "Bundler reported warnings",
			logfields.Count(len(r.Warnings)), logfields.Warnings(r.Warnings))
	}

	attrs := []slog.Attr{logfields.Outcome(string(r.Outcome))}
	if r.Duration > 0 {
		attrs = append(attrs, logfields.DurationMS(float64(r.Duration.Milliseconds())))
	}
	observability.Log(ctx, rp.logger, slog.LevelInfo, "Build completed", attrs...)
}
