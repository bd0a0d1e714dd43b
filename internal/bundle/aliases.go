package bundle

import (
	"path/filepath"

	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

// Alias keys understood by the host application shell.
const (
	AliasSkyUX       = "blackbaud-skyux2/dist"
	AliasSkyUXCSS    = "blackbaud-skyux2/dist/css/sky.css"
	AliasAppExtras   = "sky-pages-internal/app-extras.module"
	skyuxPackageName = "blackbaud-skyux2"
)

// AppExtrasFile is the project-relative location of the optional extras module.
var AppExtrasFile = filepath.Join("src", "app", "app-extras.module"+paths.SourceExt)

// skyuxSource enumerates which skyux overrides are present. Each
// combination maps to exactly one pair of script/stylesheet targets.
type skyuxSource int

const (
	skyuxDefault skyuxSource = iota
	skyuxImportPath
	skyuxCSSPath
	skyuxImportAndCSSPath
)

func skyuxSourceOf(s config.SkyUXConfig) skyuxSource {
	switch {
	case s.HasImportPath() && s.HasCSSPath():
		return skyuxImportAndCSSPath
	case s.HasImportPath():
		return skyuxImportPath
	case s.HasCSSPath():
		return skyuxCSSPath
	default:
		return skyuxDefault
	}
}

// skyuxAliases returns the script and stylesheet alias targets. Override
// paths are trusted without an existence check.
func (r *Resolver) skyuxAliases(s config.SkyUXConfig) (script, css string) {
	defaultScript := r.layout.OutPath("node_modules", skyuxPackageName, "dist")
	defaultCSS := filepath.Join(defaultScript, "css", "sky.css")

	switch skyuxSourceOf(s) {
	case skyuxImportAndCSSPath:
		return r.layout.SpaPath(s.ImportPath), r.layout.SpaPath(s.CSSPath)
	case skyuxImportPath:
		script = r.layout.SpaPath(s.ImportPath)
		return script, filepath.Join(script, "css", "sky.css")
	case skyuxCSSPath:
		return defaultScript, r.layout.SpaPath(s.CSSPath)
	default:
		return defaultScript, defaultCSS
	}
}

// appExtrasAlias checks the project once: a project extras module wins over
// the package's bundled fallback.
func (r *Resolver) appExtrasAlias() string {
	projectExtras := r.layout.SpaPath(AppExtrasFile)
	if r.checker.Exists(projectExtras) {
		return projectExtras
	}
	return r.layout.OutPath(AppExtrasFile)
}
