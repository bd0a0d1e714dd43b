// Package build runs one bundler build for a project and classifies its
// result.
//
// A build resolves the bundler configuration for the active compile mode.
// Ahead-of-time builds first stage the workspace synchronously, then one
// bundler is constructed and run exactly once. Its completion is classified
// as fatal, errors, warnings, or clean and reported once. The AoT staging
// workspace is torn down unconditionally when the build returns, including
// after a staging failure or a fatal bundler error.
package build
