package generator

import (
	"encoding/json"
	"fmt"
	"io"
)

// LoaderOptions is the options object the bundler hands to the module
// loader for the synthetic entry module.
type LoaderOptions struct {
	SkyPages LoaderSettings `json:"SKY_PAGES"`
}

// LoaderSettings carries the generator inputs.
type LoaderSettings struct {
	Cwd        string  `json:"cwd"`
	InstallDir string  `json:"installDir"`
	ImportPath string  `json:"importPath"`
	Entries    []Entry `json:"entries"`
}

// Loader answers module loader requests by delegating to a Generator.
type Loader struct {
	gen      Generator
	discover func(root string) ([]Entry, error)
}

// NewLoader creates a Loader around gen.
func NewLoader(gen Generator) *Loader {
	return &Loader{gen: gen, discover: Discover}
}

// DecodeOptions reads loader options from r.
func DecodeOptions(r io.Reader) (LoaderOptions, error) {
	var opts LoaderOptions
	if err := json.NewDecoder(r).Decode(&opts); err != nil {
		return LoaderOptions{}, fmt.Errorf("decode loader options: %w", err)
	}
	return opts, nil
}

// Apply renders the module for opts. Entries are discovered from the
// project when the options carry none.
func (l *Loader) Apply(opts LoaderOptions) (string, error) {
	s := opts.SkyPages
	entries := s.Entries
	if entries == nil && s.Cwd != "" {
		found, err := l.discover(s.Cwd)
		if err != nil {
			return "", err
		}
		entries = found
	}
	return l.gen.Source(entries, s.Cwd, s.InstallDir, s.ImportPath, Options{})
}
