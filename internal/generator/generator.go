// Package generator produces the source of the synthetic entry module
// (SkyPagesModule) that wires the project's routed pages into the host
// application shell.
package generator

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"text/template"
)

// DefaultImportPath is the component library specifier used when the
// project does not override skyux.importPath.
const DefaultImportPath = "blackbaud-skyux2/dist"

// Options tunes generation.
type Options struct {
	// AoT emits templateUrl references relative to the staged module
	// instead of require() calls against the project tree.
	AoT bool
}

// Generator renders the entry module source. Implementations must be
// deterministic: identical input yields identical output.
type Generator interface {
	Source(entries []Entry, cwd, installDir, importPath string, opts Options) (string, error)
}

// TemplateGenerator renders the module from a text/template.
type TemplateGenerator struct {
	tmpl *template.Template
}

// NewTemplateGenerator returns the default generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{tmpl: moduleTemplate}
}

type templateData struct {
	ImportPath string
	InstallDir string
	Routes     []routeData
}

type routeData struct {
	Path      string
	Component string
	Template  string
	AoT       bool
}

// Source implements Generator.
func (g *TemplateGenerator) Source(entries []Entry, cwd, installDir, importPath string, opts Options) (string, error) {
	if importPath == "" {
		importPath = DefaultImportPath
	}
	data := templateData{
		ImportPath: importPath,
		InstallDir: filepath.ToSlash(installDir),
	}
	for _, e := range entries {
		rd := routeData{Path: e.RoutePath, Component: e.ComponentName, AoT: opts.AoT}
		if opts.AoT {
			rd.Template = "./" + e.TemplatePath
		} else {
			rd.Template = path.Join(filepath.ToSlash(cwd), "src", "app", e.TemplatePath)
		}
		data.Routes = append(data.Routes, rd)
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render sky-pages module: %w", err)
	}
	return buf.String(), nil
}

// String values are emitted inside single-quoted literals and go through js.
var moduleTemplate = template.Must(template.New("sky-pages.module").Parse(`// Generated by skypages. Changes are overwritten on every build.
import { Component, NgModule } from '@angular/core';
import { CommonModule } from '@angular/common';
import { RouterModule } from '@angular/router';
import { SkyModule } from '{{js .ImportPath}}';
import { AppExtrasModule } from 'sky-pages-internal/app-extras.module';
{{range .Routes}}
@Component({
{{- if .AoT}}
  templateUrl: '{{js .Template}}'
{{- else}}
  template: require('{{js .Template}}')
{{- end}}
})
export class {{.Component}} { }
{{end}}
const routes = [
{{- range .Routes}}
  { path: '{{js .Path}}', component: {{.Component}} },
{{- end}}
];

@NgModule({
  imports: [
    CommonModule,
    SkyModule,
    AppExtrasModule,
    RouterModule.forRoot(routes)
  ],
  declarations: [
{{- range .Routes}}
    {{.Component}},
{{- end}}
  ],
  exports: [
    SkyModule,
    AppExtrasModule
  ]
})
export class SkyPagesModule { }
`))
