// Package staging materializes the AoT staging workspace: the package's
// default sources overlaid with the project's sources, the generated entry
// module, and the compiler manifest.
package staging

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/skypages/internal/bundle"
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/generator"
	"git.home.luguber.info/inful/skypages/internal/logfields"
	"git.home.luguber.info/inful/skypages/internal/observability"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// Stager populates the staging workspace.
type Stager struct {
	layout   *paths.Layout
	gen      generator.Generator
	fs       FileSystem
	manifest Manifest
	logger   *slog.Logger
}

// Option configures a Stager.
type Option func(*Stager)

// WithFileSystem replaces the filesystem (for testing).
func WithFileSystem(fs FileSystem) Option {
	return func(s *Stager) { s.fs = fs }
}

// WithManifestTemplate replaces the manifest template.
func WithManifestTemplate(m Manifest) Option {
	return func(s *Stager) { s.manifest = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stager) { s.logger = l }
}

// NewStager creates a Stager writing through the real filesystem by default.
func NewStager(layout *paths.Layout, gen generator.Generator, opts ...Option) *Stager {
	s := &Stager{
		layout:   layout,
		gen:      gen,
		fs:       OSFileSystem{},
		manifest: DefaultManifest(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileSystem returns the filesystem the stager writes through.
func (s *Stager) FileSystem() FileSystem { return s.fs }

// Stage runs the staging steps in order and returns the path of the
// written entry module. Each step completes before the next starts. The
// caller owns teardown, including after a failed Stage.
func (s *Stager) Stage(ctx context.Context, cfg config.ProjectConfig, entries []generator.Entry) (string, error) {
	ctx = observability.WithStage(ctx, "staging")
	start := time.Now()
	stagedSrc := s.layout.SpaPathTempSrc()

	// Package defaults first, project sources second: last writer wins.
	for _, src := range []string{s.layout.OutPath("src"), s.layout.SpaPath("src")} {
		observability.Log(ctx, s.logger, slog.LevelDebug, "Copying source tree",
			logfields.Source(src), logfields.Destination(stagedSrc))
		if err := s.fs.CopyDir(src, stagedSrc); err != nil {
			return "", copyError(err, src, stagedSrc)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	importPath := bundle.ImportPath(cfg, true)
	source, err := s.gen.Source(entries, s.layout.ProjectRoot(), s.layout.InstallDir(), importPath, generator.Options{AoT: true})
	if err != nil {
		return "", errors.GeneratorError("generate entry module").
			WithCause(err).
			WithContext("import_path", importPath).
			Build()
	}

	modulePath := s.layout.SpaPathTempSrc("app", bundle.EntryModule)
	if err := s.fs.WriteFile(modulePath, []byte(source)); err != nil {
		return "", errors.FileSystemError("write entry module").
			WithCause(err).
			WithContext("path", modulePath).
			Build()
	}

	manifestPath := s.layout.SpaPathTempSrc(bundle.ManifestFile)
	if err := s.fs.WriteJSON(manifestPath, s.manifest.Merge(manifestOverrides())); err != nil {
		return "", errors.FileSystemError("write compiler manifest").
			WithCause(err).
			WithContext("path", manifestPath).
			Build()
	}

	observability.Log(ctx, s.logger, slog.LevelDebug, "Staged workspace",
		logfields.Path(s.layout.SpaPathTemp()),
		logfields.Count(len(entries)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return modulePath, nil
}

func copyError(err error, src, dst string) error {
	return errors.FileSystemError("copy source tree").
		WithCause(err).
		WithContext(logfields.KeySource, src).
		WithContext(logfields.KeyDestination, dst).
		Build()
}
