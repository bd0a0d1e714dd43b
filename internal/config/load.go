package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

// ErrConfigNotFound is returned by Load when the configuration file does not exist.
var ErrConfigNotFound = stderrors.New("project configuration not found")

// projectFile is the on-disk shape. JSON documents are valid YAML, so the
// same decoder reads skyuxconfig.json and YAML variants.
type projectFile struct {
	Settings *settingsFile `yaml:"blackbaud-sky-pages-out-skyux2"`
}

type settingsFile struct {
	Mode        string     `yaml:"mode"`
	CompileMode string     `yaml:"compileMode"`
	SkyUX       *skyuxFile `yaml:"skyux"`
	Build       *buildFile `yaml:"build"`
}

type skyuxFile struct {
	ImportPath *string `yaml:"importPath"`
	CSSPath    *string `yaml:"cssPath"`
}

type buildFile struct {
	OutputPath string `yaml:"outputPath"`
	PublicPath string `yaml:"publicPath"`
}

// Load reads and validates the project configuration at path. Environment
// variables referenced as ${VAR} are expanded before decoding.
func Load(path string) (ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return ProjectConfig{}, errors.WrapError(ErrConfigNotFound, errors.CategoryNotFound, "project configuration not found").
				WithContext("path", path).
				Build()
		}
		return ProjectConfig{}, errors.WrapError(err, errors.CategoryConfig, "read project configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return ProjectConfig{}, classified.WithContext("path", path)
		}
		return ProjectConfig{}, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (ProjectConfig, error) {
	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ProjectConfig{}, errors.ConfigError("decode project configuration").
			WithCause(err).
			Build()
	}

	cfg := Default()
	s := file.Settings
	if s == nil {
		return cfg, nil
	}

	mode, err := modeNormalizer.NormalizeWithError(s.Mode)
	if err != nil {
		return ProjectConfig{}, errors.ValidationError(fmt.Sprintf("%s.mode: %v", NamespaceKey, err)).Build()
	}
	cfg.Mode = mode

	compileMode, err := compileModeNormalizer.NormalizeWithError(s.CompileMode)
	if err != nil {
		return ProjectConfig{}, errors.ValidationError(fmt.Sprintf("%s.compileMode: %v", NamespaceKey, err)).Build()
	}
	cfg.CompileMode = compileMode

	if s.SkyUX != nil {
		if s.SkyUX.ImportPath != nil {
			cfg.SkyUX.ImportPath = *s.SkyUX.ImportPath
		}
		if s.SkyUX.CSSPath != nil {
			cfg.SkyUX.CSSPath = *s.SkyUX.CSSPath
		}
	}
	if s.Build != nil {
		if s.Build.OutputPath != "" {
			cfg.Build.OutputPath = s.Build.OutputPath
		}
		if s.Build.PublicPath != "" {
			cfg.Build.PublicPath = s.Build.PublicPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}
