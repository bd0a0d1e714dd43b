package commands

import (
	stderrors "errors"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config      string `short:"c" help:"Project configuration file, relative to the project root" default:""`
	Verbose     bool   `short:"v" help:"Enable verbose logging"`
	ProjectRoot string `name:"project-root" help:"Consuming project root (defaults to the working directory)" type:"path"`
	InstallDir  string `name:"install-dir" help:"Package install directory (defaults to node_modules/blackbaud-sky-pages-out-skyux2)" type:"path"`

	Build   BuildCmd   `cmd:"" help:"Build the project once"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever sources or configuration change"`
	Module  ModuleCmd  `cmd:"" help:"Render the generated entry module from loader options on stdin"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// AfterApply runs after flag parsing; loads .env files and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	root := c.ProjectRoot
	if root == "" {
		root = "."
	}
	loaded, envErr := config.LoadEnv(root)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger

	if envErr != nil {
		logger.Warn("Failed to load environment file", "error", envErr)
	}
	for _, f := range loaded {
		logger.Debug("Loaded environment file", "path", f)
	}
	return nil
}

// Runtime merges global flags with SKYPAGES_* environment variables.
func (c *CLI) Runtime() config.RuntimeOptions {
	opts := config.RuntimeOptions{
		ProjectRoot: c.ProjectRoot,
		InstallDir:  c.InstallDir,
		ConfigPath:  c.Config,
		Verbose:     c.Verbose,
	}
	opts.ApplyEnv()
	return opts
}

// Layout resolves the path layout for opts.
func Layout(opts config.RuntimeOptions) (*paths.Layout, error) {
	return paths.NewLayout(opts.ProjectRoot, opts.InstallDir, opts.StagingDir)
}

// LoadProject reads the project configuration. A missing default
// configuration file yields defaults; an explicitly named one must exist.
func LoadProject(opts config.RuntimeOptions, layout *paths.Layout) (config.ProjectConfig, error) {
	path := opts.ConfigFile(layout.ProjectRoot())
	cfg, err := config.Load(path)
	if err != nil {
		if opts.ConfigPath == "" && stderrors.Is(err, config.ErrConfigNotFound) {
			slog.Debug("No project configuration found, using defaults", "path", path)
			return config.Default(), nil
		}
		return config.ProjectConfig{}, err
	}
	return cfg, nil
}
