// Package bundle resolves the bundler configuration for one build.
//
// Two variants exist: the default (just in time) configuration and the
// ahead-of-time configuration that compiles from the staging workspace.
// Both start from a common base that carries the module aliases:
//
//	blackbaud-skyux2/dist                 script bundle of the component library
//	blackbaud-skyux2/dist/css/sky.css     component library stylesheet
//	sky-pages-internal/app-extras.module  project extras module, or the package fallback
//
// A resolved Config is produced once per build and never mutated after
// Resolve returns.
package bundle
