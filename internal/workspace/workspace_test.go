package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_CreateAndCleanup(t *testing.T) {
	wsPath := filepath.Join(t.TempDir(), ".skypagestmp")
	mgr := NewManager(wsPath, nil)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if mgr.GetPath() != wsPath {
		t.Errorf("Expected path %s, got: %s", wsPath, mgr.GetPath())
	}

	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Workspace directory does not exist: %s", wsPath)
	}

	if err := os.WriteFile(filepath.Join(wsPath, "marker.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to create marker file: %v", err)
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}

	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
}

func TestManager_CreateClearsStaleResidue(t *testing.T) {
	wsPath := filepath.Join(t.TempDir(), ".skypagestmp")
	stale := filepath.Join(wsPath, "src", "stale.ts")
	if err := os.MkdirAll(filepath.Dir(stale), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(wsPath, nil)
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("Stale file survived Create(): %s", stale)
	}
}

type countingFS struct {
	removes   int
	mkdirErr  error
	removeErr error
}

func (c *countingFS) MkdirAll(string, os.FileMode) error { return c.mkdirErr }

func (c *countingFS) RemoveAll(string) error {
	c.removes++
	return c.removeErr
}

func TestManager_CleanupRemovesOnce(t *testing.T) {
	fs := &countingFS{}
	mgr := NewManager("/ws", fs)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	fs.removes = 0

	for range 3 {
		if err := mgr.Cleanup(); err != nil {
			t.Fatalf("Cleanup() failed: %v", err)
		}
	}

	if fs.removes != 1 {
		t.Errorf("Expected exactly one removal, got %d", fs.removes)
	}
}

func TestManager_CleanupAfterFailedCreate(t *testing.T) {
	fs := &countingFS{mkdirErr: errors.New("read-only")}
	mgr := NewManager("/ws", fs)

	if err := mgr.Create(); err == nil {
		t.Fatal("Expected Create() to fail")
	}
	fs.removes = 0

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if fs.removes != 1 {
		t.Errorf("Expected partial residue to be removed once, got %d", fs.removes)
	}
}

func TestManager_CleanupError(t *testing.T) {
	fs := &countingFS{}
	mgr := NewManager("/ws", fs)
	if err := mgr.Create(); err != nil {
		t.Fatal(err)
	}
	fs.removeErr = errors.New("busy")

	if err := mgr.Cleanup(); err == nil {
		t.Fatal("Expected Cleanup() to report the removal error")
	}
}
