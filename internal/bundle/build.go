package bundle

import (
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/generator"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// ModuleLoaderTest matches the synthetic entry module routed through the
// module loader in basic mode.
const ModuleLoaderTest = `sky-pages\.module\.ts$`

// defaultConfig compiles just in time from the project tree. The app entry
// is the package's own main module, so it lies under the project root only
// when the package is installed there.
func (r *Resolver) defaultConfig(cfg config.ProjectConfig) *Config {
	out := r.commonConfig(cfg)
	out.Variant = VariantDefault
	out.Entry[AppEntryName] = []string{r.layout.OutPath("src", "main"+paths.SourceExt)}

	out.Module.Rules = append(out.Module.Rules, Rule{
		Test: `\.ts$`,
		Use:  Loaders("awesome-typescript-loader", "angular2-template-loader"),
	})

	// Basic mode lets the package generate the app module on the fly.
	if cfg.Mode == config.ModeBasic {
		out.Module.Rules = append(out.Module.Rules, Rule{
			Test: ModuleLoaderTest,
			Use: []LoaderSpec{{
				Loader: r.layout.OutPath("loader", "sky-pages-module"),
				Options: map[string]any{
					"SKY_PAGES": map[string]any{
						"cwd":        r.layout.ProjectRoot(),
						"installDir": r.layout.InstallDir(),
						"importPath": ImportPath(cfg, false),
					},
				},
			}},
		})
	}
	return out
}

// ImportPath returns the import specifier the generated module uses for the
// component library. Staged modules live two directories below the bundling
// root, so an override is prefixed with ../../ when staged.
func ImportPath(cfg config.ProjectConfig, staged bool) string {
	if !cfg.SkyUX.HasImportPath() {
		return generator.DefaultImportPath
	}
	if staged {
		return "../../" + cfg.SkyUX.ImportPath
	}
	return cfg.SkyUX.ImportPath
}
