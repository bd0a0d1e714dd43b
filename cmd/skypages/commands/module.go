package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/generator"
)

// ModuleCmd implements the 'module' command: the loader entry point used by
// the bundler to render the synthetic SkyPagesModule.
type ModuleCmd struct {
	Input string `arg:"" optional:"" help:"Loader options JSON file (default: stdin)" type:"existingfile"`
}

func (m *ModuleCmd) Run(_ *Global, _ *CLI) error {
	in := io.Reader(os.Stdin)
	if m.Input != "" {
		f, err := os.Open(m.Input)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "open loader options").Build()
		}
		defer func() {
			_ = f.Close()
		}()
		in = f
	}
	return RunModule(in, os.Stdout)
}

// RunModule decodes loader options from r and writes the generated module to w.
func RunModule(r io.Reader, w io.Writer) error {
	opts, err := generator.DecodeOptions(r)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid loader options").Build()
	}
	src, err := generator.NewLoader(generator.NewTemplateGenerator()).Apply(opts)
	if err != nil {
		return errors.WrapError(err, errors.CategoryGenerator, "generate entry module").Fatal().Build()
	}
	if _, err := fmt.Fprint(w, src); err != nil {
		return fmt.Errorf("write module: %w", err)
	}
	return nil
}
