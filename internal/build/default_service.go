package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/skypages/internal/bundle"
	"git.home.luguber.info/inful/skypages/internal/bundler"
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/eventstore"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/generator"
	"git.home.luguber.info/inful/skypages/internal/git"
	"git.home.luguber.info/inful/skypages/internal/logfields"
	"git.home.luguber.info/inful/skypages/internal/metrics"
	"git.home.luguber.info/inful/skypages/internal/observability"
	"git.home.luguber.info/inful/skypages/internal/paths"
	"git.home.luguber.info/inful/skypages/internal/staging"
	"git.home.luguber.info/inful/skypages/internal/workspace"
)

// Stage names used for logging, metrics, and history.
const (
	StageResolve = "resolve"
	StageStaging = "staging"
	StageBundle  = "bundle"
)

// Stager populates the AoT staging workspace.
type Stager interface {
	Stage(ctx context.Context, cfg config.ProjectConfig, entries []generator.Entry) (string, error)
}

// DefaultService is the standard Service implementation.
type DefaultService struct {
	layout           *paths.Layout
	resolver         *bundle.Resolver
	stager           Stager
	workspaceFactory func() *workspace.Manager
	bundlerFactory   bundler.Factory
	discover         func(root string) ([]generator.Entry, error)
	revision         func(path string) (git.Revision, error)
	newID            func() string
	recorder         metrics.Recorder
	history          eventstore.Store
	reporter         *Reporter
	logger           *slog.Logger
}

// NewService creates a DefaultService for layout that writes through the
// real filesystem and runs the bundler via bundler.NewExecFactory.
func NewService(layout *paths.Layout) *DefaultService {
	s := &DefaultService{
		layout:         layout,
		resolver:       bundle.NewResolver(layout, nil),
		stager:         staging.NewStager(layout, generator.NewTemplateGenerator()),
		bundlerFactory: bundler.NewExecFactory(nil, nil),
		discover:       generator.Discover,
		revision:       git.HeadRevision,
		newID:          uuid.NewString,
		recorder:       metrics.NoopRecorder{},
		reporter:       NewReporter(nil),
	}
	s.workspaceFactory = func() *workspace.Manager {
		return workspace.NewManager(layout.SpaPathTemp(), nil)
	}
	return s
}

// WithFileSystem routes staging writes and workspace teardown through fs
// (for testing).
func (s *DefaultService) WithFileSystem(fs staging.FileSystem) *DefaultService {
	s.stager = staging.NewStager(s.layout, generator.NewTemplateGenerator(), staging.WithFileSystem(fs), staging.WithLogger(s.logger))
	s.workspaceFactory = func() *workspace.Manager {
		return workspace.NewManager(s.layout.SpaPathTemp(), fs)
	}
	return s
}

// WithStager replaces the stager.
func (s *DefaultService) WithStager(st Stager) *DefaultService {
	s.stager = st
	return s
}

// WithResolver replaces the bundle resolver.
func (s *DefaultService) WithResolver(r *bundle.Resolver) *DefaultService {
	s.resolver = r
	return s
}

// WithWorkspaceFactory allows injecting a custom workspace factory (for testing).
func (s *DefaultService) WithWorkspaceFactory(factory func() *workspace.Manager) *DefaultService {
	s.workspaceFactory = factory
	return s
}

// WithBundlerFactory sets the factory constructing the bundler.
func (s *DefaultService) WithBundlerFactory(factory bundler.Factory) *DefaultService {
	if factory != nil {
		s.bundlerFactory = factory
	}
	return s
}

// WithDiscover replaces route discovery.
func (s *DefaultService) WithDiscover(fn func(root string) ([]generator.Entry, error)) *DefaultService {
	s.discover = fn
	return s
}

// WithRevisionFunc replaces how the project revision is read.
func (s *DefaultService) WithRevisionFunc(fn func(path string) (git.Revision, error)) *DefaultService {
	s.revision = fn
	return s
}

// WithIDFunc replaces build ID generation.
func (s *DefaultService) WithIDFunc(fn func() string) *DefaultService {
	s.newID = fn
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithHistory records build events in store.
func (s *DefaultService) WithHistory(store eventstore.Store) *DefaultService {
	s.history = store
	return s
}

// WithLogger sets the logger used for build and result logging.
func (s *DefaultService) WithLogger(logger *slog.Logger) *DefaultService {
	s.logger = logger
	s.reporter = NewReporter(logger)
	return s
}

// Build runs one build. Fatal failures, including staging failures, return
// a fatal classified error; bundler errors return a non-fatal classified
// build error; warnings and clean builds return nil.
func (s *DefaultService) Build(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{BuildID: s.newID(), StartTime: start}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	cfg := req.Config
	if req.CompileMode != "" {
		cfg.CompileMode = req.CompileMode
	}
	if err := cfg.Validate(); err != nil {
		return s.finishFatal(ctx, result, StageResolve, err)
	}

	if rev, err := s.revision(s.layout.ProjectRoot()); err == nil {
		result.Revision = rev.String()
		ctx = observability.WithRevision(ctx, result.Revision)
	} else if !stderrors.Is(err, git.ErrNotRepository) {
		observability.Log(ctx, s.logger, slog.LevelDebug, "Project revision unavailable", logfields.Error(err))
	}

	stageStart := time.Now()
	bundleCfg := s.resolver.Resolve(cfg)
	result.Variant = bundleCfg.Variant
	s.recorder.ObserveStageDuration(StageResolve, time.Since(stageStart))
	s.recorder.IncStageResult(StageResolve, metrics.ResultSuccess)
	observability.Log(ctx, s.logger, slog.LevelDebug, "Resolved bundler configuration",
		logfields.Variant(string(bundleCfg.Variant)),
		logfields.Path(strings.Join(bundleCfg.AppEntry(), ",")))

	observability.Log(ctx, s.logger, slog.LevelInfo, "Starting build",
		logfields.Mode(string(cfg.Mode)),
		logfields.CompileMode(string(cfg.CompileMode)),
		logfields.Variant(string(bundleCfg.Variant)))
	s.record(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(result.BuildID, eventstore.BuildStartedMeta{
			ProjectRoot: s.layout.ProjectRoot(),
			Mode:        string(cfg.Mode),
			CompileMode: string(cfg.CompileMode),
			Variant:     string(bundleCfg.Variant),
			Revision:    result.Revision,
		})
	})

	if bundleCfg.Variant == bundle.VariantAoT {
		ws := s.workspaceFactory()
		// Registered before staging starts so partial residue is removed too.
		defer func() {
			if err := ws.Cleanup(); err != nil {
				observability.Log(ctx, s.logger, slog.LevelWarn, "Failed to clean up staging workspace",
					logfields.Path(ws.GetPath()), logfields.Error(err))
			}
		}()

		if err := s.stage(ctx, ws, cfg, req.Entries); err != nil {
			return s.finishFatal(ctx, result, StageStaging, err)
		}
	}

	stageStart = time.Now()
	b := s.bundlerFactory(bundleCfg)
	stats, fatal := b.Run(observability.WithStage(ctx, StageBundle))
	s.recorder.ObserveStageDuration(StageBundle, time.Since(stageStart))

	if fatal != nil {
		s.recorder.IncStageResult(StageBundle, metrics.ResultFatal)
		err := errors.BundlerError("bundler failed").
			WithCause(fmt.Errorf("%w: %w", ErrBundle, fatal)).
			Build()
		return s.finishFatal(ctx, result, StageBundle, err)
	}

	classified := Classify(nil, stats)
	result.Outcome = classified.Outcome
	result.Errors = classified.Errors
	result.Warnings = classified.Warnings
	s.finish(result)

	switch classified.Outcome {
	case OutcomeErrors:
		s.recorder.IncStageResult(StageBundle, metrics.ResultFatal)
	case OutcomeWarnings:
		s.recorder.IncStageResult(StageBundle, metrics.ResultWarning)
	default:
		s.recorder.IncStageResult(StageBundle, metrics.ResultSuccess)
	}
	s.recorder.AddBundlerMessages("errors", len(result.Errors))
	s.recorder.AddBundlerMessages("warnings", len(result.Warnings))
	s.recorder.IncBuildOutcome(string(result.Outcome))
	s.recorder.ObserveBuildDuration(result.Duration)

	s.reporter.Report(ctx, *result)
	s.record(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBundleCompleted(result.BuildID, eventstore.BundleReport{
			Outcome:    string(result.Outcome),
			Errors:     result.Errors,
			Warnings:   result.Warnings,
			DurationMS: result.Duration.Milliseconds(),
		})
	})

	if !result.Outcome.IsSuccess() {
		return result, errors.BuildError(fmt.Sprintf("bundler reported %d error(s)", len(result.Errors))).
			WithContext("build_id", result.BuildID).
			Build()
	}
	return result, nil
}

func (s *DefaultService) stage(ctx context.Context, ws *workspace.Manager, cfg config.ProjectConfig, entries []generator.Entry) error {
	ctx = observability.WithStage(ctx, StageStaging)
	start := time.Now()

	fail := func(err error) error {
		s.recorder.ObserveStageDuration(StageStaging, time.Since(start))
		s.recorder.IncStageResult(StageStaging, metrics.ResultFatal)
		if classified, ok := errors.AsClassified(err); ok {
			return classified.WithContext("workspace", ws.GetPath())
		}
		return errors.WrapError(fmt.Errorf("%w: %w", ErrStaging, err), errors.CategoryFileSystem, "staging failed").
			Fatal().
			WithContext("path", ws.GetPath()).
			Build()
	}

	if err := ws.Create(); err != nil {
		return fail(err)
	}

	if entries == nil && s.discover != nil {
		found, err := s.discover(s.layout.ProjectRoot())
		if err != nil {
			return fail(err)
		}
		entries = found
	}

	if _, err := s.stager.Stage(ctx, cfg, entries); err != nil {
		return fail(err)
	}

	duration := time.Since(start)
	s.recorder.ObserveStageDuration(StageStaging, duration)
	s.recorder.IncStageResult(StageStaging, metrics.ResultSuccess)
	buildID := observability.GetContext(ctx).BuildID
	s.record(ctx, func() (eventstore.Event, error) {
		return eventstore.NewStagingCompleted(buildID, ws.GetPath(), len(entries), duration)
	})
	return nil
}

func (s *DefaultService) finish(result *Result) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
}

func (s *DefaultService) finishFatal(ctx context.Context, result *Result, stage string, err error) (*Result, error) {
	classified := Classify(err, nil)
	result.Outcome = classified.Outcome
	result.Fatal = classified.Fatal
	s.finish(result)

	s.recorder.IncBuildOutcome(string(OutcomeFatal))
	s.recorder.ObserveBuildDuration(result.Duration)
	s.reporter.Report(observability.WithStage(ctx, stage), *result)
	s.record(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBuildFailed(result.BuildID, stage, err.Error())
	})
	return result, err
}

// record appends a history event. History is best effort: failures are
// logged and never fail the build.
func (s *DefaultService) record(ctx context.Context, build func() (eventstore.Event, error)) {
	if s.history == nil {
		return
	}
	e, err := build()
	if err == nil {
		err = eventstore.Record(ctx, s.history, e)
	}
	if err != nil {
		observability.Log(ctx, s.logger, slog.LevelWarn, "Failed to record build history", logfields.Error(err))
	}
}
