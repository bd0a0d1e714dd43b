package bundler

import "errors"

var (
	// ErrBundlerNotFound indicates the bundler executable was not found on PATH.
	ErrBundlerNotFound = errors.New("bundler executable not found")
	// ErrBundlerFailed indicates the bundler exited without producing stats.
	ErrBundlerFailed = errors.New("bundler execution failed")
	// ErrStatsDecode indicates the bundler output was not a stats document.
	ErrStatsDecode = errors.New("bundler stats decode failed")
	// ErrConfigWrite indicates the resolved configuration could not be handed to the bundler.
	ErrConfigWrite = errors.New("bundler config write failed")
)
