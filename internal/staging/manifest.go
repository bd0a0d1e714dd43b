package staging

import (
	"maps"

	"git.home.luguber.info/inful/skypages/internal/bundle"
)

// Manifest is the compiler manifest written next to the staged sources.
type Manifest map[string]any

// DefaultManifest returns the manifest template every AoT build starts from.
func DefaultManifest() Manifest {
	return Manifest{
		"compilerOptions": map[string]any{
			"target":                 "es5",
			"module":                 "es2015",
			"moduleResolution":       "node",
			"sourceMap":              true,
			"emitDecoratorMetadata":  true,
			"experimentalDecorators": true,
			"noImplicitAny":          true,
			"lib":                    []string{"es2015", "dom"},
			"typeRoots":              []string{"../node_modules/@types"},
		},
		"angularCompilerOptions": map[string]any{
			"genDir":           "./ngfactory",
			"entryModule":      "./app/app.module#AppModule",
			"skipMetadataEmit": true,
		},
	}
}

// Merge returns a copy of m with overrides applied key by key. Override
// values replace template values wholesale.
func (m Manifest) Merge(overrides Manifest) Manifest {
	out := maps.Clone(m)
	if out == nil {
		out = Manifest{}
	}
	maps.Copy(out, overrides)
	return out
}

// manifestOverrides are the per-build keys. files must list exactly the
// application's root module; the compiler walks the graph from there.
func manifestOverrides() Manifest {
	return Manifest{
		"files":   []string{bundle.RootModuleFile},
		"exclude": []string{"node_modules"},
	}
}
