package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

// Validate checks the invariants the bundle resolver relies on. The
// resolver itself trusts its input, so every ProjectConfig built outside
// Parse should pass through here first.
//
// Override paths must be relative to the project root. Their targets are
// not checked for existence: a missing importPath surfaces when the
// bundler fails to resolve it.
func (c ProjectConfig) Validate() error {
	switch c.Mode {
	case ModeBasic, ModeAdvanced:
	default:
		return errors.ValidationError(fmt.Sprintf("unsupported mode %q", c.Mode)).Build()
	}

	switch c.CompileMode {
	case CompileModeDefault, CompileModeAoT:
	default:
		return errors.ValidationError(fmt.Sprintf("unsupported compileMode %q", c.CompileMode)).Build()
	}

	if err := validateRelative("skyux.importPath", c.SkyUX.ImportPath); err != nil {
		return err
	}
	if err := validateRelative("skyux.cssPath", c.SkyUX.CSSPath); err != nil {
		return err
	}
	if err := validateRelative("build.outputPath", c.Build.OutputPath); err != nil {
		return err
	}
	if c.Build.OutputPath == "" {
		return errors.ValidationError("build.outputPath must not be empty").Build()
	}
	return nil
}

func validateRelative(field, p string) error {
	if p == "" {
		return nil
	}
	if strings.ContainsRune(p, 0) {
		return errors.ValidationError(field + " contains a NUL byte").Build()
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return errors.ValidationError(fmt.Sprintf("%s must be relative to the project root, got %q", field, p)).
			WithContext("field", field).
			Build()
	}
	return nil
}
