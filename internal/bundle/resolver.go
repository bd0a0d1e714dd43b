package bundle

import (
	"log/slog"

	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/logfields"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// AppEntryName is the entry every configuration carries.
const AppEntryName = "app"

// Resolver produces bundler configurations for a project layout.
type Resolver struct {
	layout  *paths.Layout
	checker paths.Checker
}

// NewResolver creates a Resolver. A nil checker checks the real filesystem.
func NewResolver(layout *paths.Layout, checker paths.Checker) *Resolver {
	if checker == nil {
		checker = paths.OSChecker{}
	}
	return &Resolver{layout: layout, checker: checker}
}

// Resolve builds the configuration for the compile mode declared by cfg.
func (r *Resolver) Resolve(cfg config.ProjectConfig) *Config {
	return r.ResolveMode(cfg, cfg.CompileMode)
}

// ResolveMode builds the configuration for an explicit compile mode. AoT
// selects the ahead-of-time variant; every other value selects the default.
// cfg is expected to have passed config.Validate.
func (r *Resolver) ResolveMode(cfg config.ProjectConfig, mode config.CompileMode) *Config {
	var out *Config
	switch mode {
	case config.CompileModeAoT:
		out = r.aotConfig(cfg)
	default:
		out = r.defaultConfig(cfg)
	}

	slog.Debug("Resolved bundler configuration",
		logfields.Variant(string(out.Variant)),
		logfields.Mode(string(cfg.Mode)),
		slog.String(AliasSkyUX, out.Resolve.Alias[AliasSkyUX]),
		slog.String(AliasAppExtras, out.Resolve.Alias[AliasAppExtras]))
	return out
}
