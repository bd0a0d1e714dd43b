package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/skypages/internal/logfields"
)

// FileSystem is the subset of filesystem operations the manager needs.
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

type osFileSystem struct{}

func (osFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (osFileSystem) RemoveAll(path string) error                  { return os.RemoveAll(path) }

// Manager handles the staging workspace lifecycle
type Manager struct {
	dir string
	fs  FileSystem

	mu      sync.Mutex
	created bool
	removed bool
}

// NewManager creates a workspace manager for dir. A nil fs uses the real filesystem.
func NewManager(dir string, fs FileSystem) *Manager {
	if fs == nil {
		fs = osFileSystem{}
	}
	return &Manager{dir: dir, fs: fs}
}

// Create prepares an empty workspace directory
func (m *Manager) Create() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to clear stale workspace: %w", err)
	}
	if err := m.fs.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	m.created = true
	m.removed = false
	slog.Debug("Created staging workspace", logfields.Path(m.dir))
	return nil
}

// GetPath returns the path to the workspace directory
func (m *Manager) GetPath() string {
	return m.dir
}

// Cleanup removes the workspace directory. It is safe to call more than
// once and also after a failed Create; the tree is removed at most once
// per Create.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removed {
		return nil
	}
	m.removed = true

	if err := m.fs.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}

	slog.Debug("Cleaned up staging workspace", logfields.Path(m.dir))
	return nil
}
