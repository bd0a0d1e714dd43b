package bundle

import (
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// AoTCompiler is both the loader and the plugin module of the AoT variant.
const (
	AoTCompiler     = "@ngtools/webpack"
	AoTPluginExport = "AotPlugin"
)

// Files inside the staged source tree.
var (
	AoTMainFile    = "main-internal.aot" + paths.SourceExt
	ManifestFile   = "tsconfig.json"
	EntryModule    = "sky-pages.module" + paths.SourceExt
	RootModuleFile = "./app/app.module" + paths.SourceExt
)

// aotConfig compiles from the staging workspace. The staged tree already
// contains the generated module, so no module loader rule is added.
func (r *Resolver) aotConfig(cfg config.ProjectConfig) *Config {
	out := r.commonConfig(cfg)
	out.Variant = VariantAoT
	out.Entry[AppEntryName] = []string{r.layout.SpaPathTempSrc(AoTMainFile)}

	out.Module.Rules = append(out.Module.Rules, Rule{
		Test: `\.ts$`,
		Use:  Loaders(AoTCompiler),
	})
	out.Plugins = append(out.Plugins, Plugin{
		Module: AoTCompiler,
		Export: AoTPluginExport,
		Options: map[string]any{
			"tsConfigPath": r.layout.SpaPathTempSrc(ManifestFile),
			"entryModule":  r.layout.SpaPathTempSrc("app", "app.module") + "#AppModule",
		},
	})
	return out
}
