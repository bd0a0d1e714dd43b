package bundle

import "slices"

// Variant identifies which base configuration a Config was built from.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantAoT     Variant = "aot"
)

// Config is the resolved bundler configuration. Its JSON encoding is the
// data part of the config module handed to the bundler; rule tests and
// plugins are turned into live objects there.
type Config struct {
	Variant Variant             `json:"-"`
	Context string              `json:"context"`
	Entry   map[string][]string `json:"entry"`
	Output  Output              `json:"output"`
	Resolve Resolve             `json:"resolve"`
	Module  Module              `json:"module"`
	Plugins []Plugin            `json:"plugins,omitempty"`
}

// Output describes where bundles are written.
type Output struct {
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	PublicPath string `json:"publicPath"`
}

// Resolve carries module resolution settings.
type Resolve struct {
	Alias      map[string]string `json:"alias"`
	Extensions []string          `json:"extensions"`
	Modules    []string          `json:"modules"`
}

// Module carries loader rules.
type Module struct {
	Rules []Rule `json:"rules"`
}

// Rule routes files matching Test through Use, applied last to first.
type Rule struct {
	// Test is a regular expression source matched against module paths.
	Test string       `json:"test"`
	Use  []LoaderSpec `json:"use"`
}

// LoaderSpec is one loader of a rule with its own options.
type LoaderSpec struct {
	Loader  string         `json:"loader"`
	Options map[string]any `json:"options,omitempty"`
}

// Loaders returns plain LoaderSpecs for names.
func Loaders(names ...string) []LoaderSpec {
	out := make([]LoaderSpec, 0, len(names))
	for _, n := range names {
		out = append(out, LoaderSpec{Loader: n})
	}
	return out
}

// Plugin names a plugin class to construct: the Export of Module, called
// with Options.
type Plugin struct {
	Module  string         `json:"module"`
	Export  string         `json:"export"`
	Options map[string]any `json:"options,omitempty"`
}

// Alias returns the alias target for key, or "" when it is not set.
func (c *Config) Alias(key string) string {
	return c.Resolve.Alias[key]
}

// AppEntry returns the modules of the app entry.
func (c *Config) AppEntry() []string {
	return slices.Clone(c.Entry[AppEntryName])
}
