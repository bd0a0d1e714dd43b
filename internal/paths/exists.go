package paths

import "os"

// Checker answers whether a path exists. The bundle resolver takes one so
// tests can decide the answer without touching the filesystem.
type Checker interface {
	Exists(path string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(path string) bool

// Exists implements Checker.
func (f CheckerFunc) Exists(path string) bool { return f(path) }

// OSChecker checks the real filesystem.
type OSChecker struct{}

// Exists reports whether path can be stat'ed.
func (OSChecker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
