package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/skypages/internal/bundle"
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/generator"
)

// Service executes builds.
type Service interface {
	Build(ctx context.Context, req Request) (*Result, error)
}

// Request contains the inputs of one build.
type Request struct {
	// Config is the project configuration.
	Config config.ProjectConfig

	// CompileMode overrides Config.CompileMode when set.
	CompileMode config.CompileMode

	// Entries are handed to the module generator in AoT builds. Nil means
	// discover them from the project tree.
	Entries []generator.Entry
}

// Outcome is the classification of a finished build.
type Outcome string

const (
	OutcomeClean    Outcome = "clean"
	OutcomeWarnings Outcome = "warnings"
	OutcomeErrors   Outcome = "errors"
	OutcomeFatal    Outcome = "fatal"
)

// IsSuccess reports whether the bundle was produced without errors.
func (o Outcome) IsSuccess() bool {
	return o == OutcomeClean || o == OutcomeWarnings
}

// Result describes a finished build.
type Result struct {
	BuildID  string
	Outcome  Outcome
	Variant  bundle.Variant
	Revision string

	// Fatal is set only for OutcomeFatal; Errors and Warnings are then empty.
	Fatal    error
	Errors   []string
	Warnings []string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
