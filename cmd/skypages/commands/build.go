package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/skypages/internal/build"
	"git.home.luguber.info/inful/skypages/internal/bundler"
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/eventstore"
	"git.home.luguber.info/inful/skypages/internal/metrics"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	CompileMode string `name:"compile-mode" help:"Override compileMode (default|aot)"`
	Bundler     string `name:"bundler" help:"Bundler command line (default: webpack)"`
	DryRun      bool   `name:"dry-run" help:"Resolve and stage, but do not run the bundler"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the build" type:"path"`
	HistoryDB   string `name:"history-db" help:"Build history database (default: <project-root>/.skypages/history.db)" type:"path"`
	NoHistory   bool   `name:"no-history" help:"Do not record build history"`
}

// serviceOptions configure newService.
type serviceOptions struct {
	dryRun    bool
	noHistory bool
}

// buildEnv bundles a configured service with the resources it owns.
type buildEnv struct {
	service  *build.DefaultService
	registry *prom.Registry
	history  *eventstore.SQLiteStore
}

func (e *buildEnv) Close() {
	if e.history != nil {
		_ = e.history.Close()
	}
}

func newService(opts config.RuntimeOptions, layout *paths.Layout, so serviceOptions, logger *slog.Logger) (*buildEnv, error) {
	reg := prom.NewRegistry()
	svc := build.NewService(layout).
		WithRecorder(metrics.NewPrometheusRecorder(reg)).
		WithLogger(logger)

	if so.dryRun {
		svc = svc.WithBundlerFactory(bundler.NoopFactory)
	} else {
		svc = svc.WithBundlerFactory(bundler.NewExecFactory(opts.Bundler, logger))
	}

	env := &buildEnv{service: svc, registry: reg}
	if !so.noHistory {
		store, err := eventstore.NewSQLiteStore(opts.HistoryPath(layout.ProjectRoot()))
		if err != nil {
			return nil, err
		}
		env.history = store
		svc.WithHistory(store)
	}
	return env, nil
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	opts := root.Runtime()
	b.apply(&opts)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	mode, err := compileModeOverride(b.CompileMode)
	if err != nil {
		return err
	}
	_, err = RunBuild(ctx, opts, mode, serviceOptions{dryRun: b.DryRun, noHistory: b.NoHistory}, g.Logger)
	return err
}

func (b *BuildCmd) apply(opts *config.RuntimeOptions) {
	if b.Bundler != "" {
		opts.Bundler = splitCommand(b.Bundler)
	}
	if b.MetricsFile != "" {
		opts.MetricsFile = b.MetricsFile
	}
	if b.HistoryDB != "" {
		opts.HistoryDB = b.HistoryDB
	}
}

// RunBuild runs one build for the project described by opts.
func RunBuild(ctx context.Context, opts config.RuntimeOptions, compileMode config.CompileMode, so serviceOptions, logger *slog.Logger) (*build.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	layout, err := Layout(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadProject(opts, layout)
	if err != nil {
		return nil, err
	}

	env, err := newService(opts, layout, so, logger)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	result, buildErr := env.service.Build(ctx, build.Request{Config: cfg, CompileMode: compileMode})

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(env.registry, opts.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics", "path", opts.MetricsFile, "error", err)
		}
	}
	return result, buildErr
}

// compileModeOverride maps a --compile-mode value to a Request override;
// empty means keep the configured mode.
func compileModeOverride(raw string) (config.CompileMode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return config.ParseCompileMode(raw)
}

func splitCommand(s string) []string {
	return strings.Fields(s)
}
