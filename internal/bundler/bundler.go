// Package bundler runs the external bundler against a resolved
// configuration.
//
// A Bundler runs exactly once. Run returns either a fatal error, meaning
// the bundler could not produce a report at all, or a Stats report whose
// errors and warnings are the bundler's own findings. Callers must not
// inspect Stats when the error is non-nil.
package bundler

import (
	"context"

	"git.home.luguber.info/inful/skypages/internal/bundle"
)

// Bundler is one bundler run.
type Bundler interface {
	Run(ctx context.Context) (Stats, error)
}

// Factory constructs a Bundler for a resolved configuration.
type Factory func(cfg *bundle.Config) Bundler

// Stats is the bundler's structured report.
type Stats interface {
	ToJSON() StatsJSON
}

// StatsJSON is the plain record form of Stats.
type StatsJSON struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// HasErrors reports whether the bundler reported errors.
func (s StatsJSON) HasErrors() bool { return len(s.Errors) > 0 }

// HasWarnings reports whether the bundler reported warnings.
func (s StatsJSON) HasWarnings() bool { return len(s.Warnings) > 0 }

// StaticStats is a Stats with a fixed report.
type StaticStats StatsJSON

// ToJSON implements Stats.
func (s StaticStats) ToJSON() StatsJSON { return StatsJSON(s) }
