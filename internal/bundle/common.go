package bundle

import (
	"git.home.luguber.info/inful/skypages/internal/config"
)

// commonConfig is the base shared by both variants. The extras check runs
// here, so exactly once per resolve.
func (r *Resolver) commonConfig(cfg config.ProjectConfig) *Config {
	script, css := r.skyuxAliases(cfg.SkyUX)

	return &Config{
		Context: r.layout.ProjectRoot(),
		Entry:   map[string][]string{},
		Output: Output{
			Path:       r.layout.SpaPath(cfg.Build.OutputPath),
			Filename:   "[name].js",
			PublicPath: cfg.Build.PublicPath,
		},
		Resolve: Resolve{
			Alias: map[string]string{
				AliasSkyUX:     script,
				AliasSkyUXCSS:  css,
				AliasAppExtras: r.appExtrasAlias(),
			},
			Extensions: []string{".js", ".ts"},
			Modules: []string{
				r.layout.SpaPath("node_modules"),
				r.layout.OutPath("node_modules"),
			},
		},
		Module: Module{
			Rules: []Rule{
				{Test: `\.html$`, Use: Loaders("raw-loader")},
				{Test: `\.s?css$`, Use: Loaders("raw-loader", "sass-loader")},
			},
		},
	}
}
