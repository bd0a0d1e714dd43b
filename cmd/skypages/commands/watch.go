package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/skypages/internal/build"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/metrics"
	"git.home.luguber.info/inful/skypages/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	CompileMode   string        `name:"compile-mode" help:"Override compileMode (default|aot)"`
	Bundler       string        `name:"bundler" help:"Bundler command line (default: webpack)"`
	HistoryDB     string        `name:"history-db" help:"Build history database (default: <project-root>/.skypages/history.db)" type:"path"`
	NoHistory     bool          `name:"no-history" help:"Do not record build history"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address (e.g. :9464)"`
	Debounce      time.Duration `name:"debounce" help:"Quiet period before a rebuild starts" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	opts := root.Runtime()
	if w.Bundler != "" {
		opts.Bundler = splitCommand(w.Bundler)
	}
	if w.HistoryDB != "" {
		opts.HistoryDB = w.HistoryDB
	}

	mode, err := compileModeOverride(w.CompileMode)
	if err != nil {
		return err
	}
	layout, err := Layout(opts)
	if err != nil {
		return err
	}
	env, err := newService(opts, layout, serviceOptions{noHistory: w.NoHistory}, g.Logger)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if w.MetricsListen != "" {
		srv := startMetricsServer(w.MetricsListen, metrics.HTTPHandler(env.registry), g.Logger)
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	rebuild := func(ctx context.Context) error {
		// Reloaded on every build so configuration edits take effect.
		cfg, err := LoadProject(opts, layout)
		if err != nil {
			return err
		}
		_, err = env.service.Build(ctx, build.Request{Config: cfg, CompileMode: mode})
		// Bundler errors were already reported with the build summary.
		if errors.HasCategory(err, errors.CategoryBuild) {
			return nil
		}
		return err
	}

	g.Logger.Info("Watching for changes", "src", layout.SpaPath("src"), "config", opts.ConfigFile(layout.ProjectRoot()))
	watcher := watch.New(
		[]string{layout.SpaPath("src")},
		opts.ConfigFile(layout.ProjectRoot()),
		rebuild,
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(g.Logger),
	)
	if err := watcher.Run(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "watch failed").Fatal().Build()
	}
	return nil
}

func startMetricsServer(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
