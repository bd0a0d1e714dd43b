package config

import (
	"fmt"

	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/foundation/normalization"
)

// NamespaceKey is the top-level key in the project configuration file that
// holds the settings owned by this tool. Other keys belong to other tools
// and are ignored.
const NamespaceKey = "blackbaud-sky-pages-out-skyux2"

// DefaultConfigFile is the project configuration file name looked up in the
// project root when no explicit path is given.
const DefaultConfigFile = "skyuxconfig.json"

// Mode selects how much of the host application shell the project provides.
type Mode string

const (
	// ModeBasic lets the package generate the application module and routes.
	ModeBasic Mode = "basic"
	// ModeAdvanced expects the project to provide its own application module.
	ModeAdvanced Mode = "advanced"
)

var modeNormalizer = normalization.NewNormalizer(map[string]Mode{
	"basic":    ModeBasic,
	"advanced": ModeAdvanced,
}, ModeBasic)

// CompileMode selects the bundler configuration variant.
type CompileMode string

const (
	// CompileModeDefault compiles just in time from the project tree.
	CompileModeDefault CompileMode = "default"
	// CompileModeAoT pre-compiles the application inside a staging workspace.
	CompileModeAoT CompileMode = "aot"
)

var compileModeNormalizer = normalization.NewNormalizer(map[string]CompileMode{
	"default": CompileModeDefault,
	"jit":     CompileModeDefault,
	"aot":     CompileModeAoT,
}, CompileModeDefault)

// ParseCompileMode maps raw to a CompileMode, rejecting unknown values.
func ParseCompileMode(raw string) (CompileMode, error) {
	mode, err := compileModeNormalizer.NormalizeWithError(raw)
	if err != nil {
		return "", errors.ValidationError(fmt.Sprintf("compileMode: %v", err)).Build()
	}
	return mode, nil
}

// ProjectConfig is the validated, immutable view of the settings namespace
// in the consuming project's configuration. It is passed by value through
// every layer of the build.
type ProjectConfig struct {
	Mode        Mode
	CompileMode CompileMode
	SkyUX       SkyUXConfig
	Build       BuildSettings
}

// SkyUXConfig overrides where the component library is resolved from.
// Both paths are relative to the project root; empty means not set.
type SkyUXConfig struct {
	ImportPath string
	CSSPath    string
}

// HasImportPath reports whether the script bundle location is overridden.
func (s SkyUXConfig) HasImportPath() bool { return s.ImportPath != "" }

// HasCSSPath reports whether the stylesheet location is overridden.
func (s SkyUXConfig) HasCSSPath() bool { return s.CSSPath != "" }

// BuildSettings holds bundler output settings.
type BuildSettings struct {
	OutputPath string
	PublicPath string
}

// Default returns the configuration used when the project declares nothing.
func Default() ProjectConfig {
	return ProjectConfig{
		Mode:        ModeBasic,
		CompileMode: CompileModeDefault,
		Build: BuildSettings{
			OutputPath: "dist",
			PublicPath: "/",
		},
	}
}
