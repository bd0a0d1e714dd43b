package staging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// FileSystem is every filesystem operation staging performs. Each call
// completes before it returns.
type FileSystem interface {
	CopyDir(src, dst string) error
	WriteFile(path string, data []byte) error
	WriteJSON(path string, v any) error
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

// OSFileSystem implements FileSystem on the real filesystem.
type OSFileSystem struct{}

// CopyDir recursively copies src into dst. Files already present in dst
// with the same relative path are replaced, read-only ones included; other
// dst files are kept. Symlinks are recreated as links, not followed.
func (fs OSFileSystem) CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if info, err := os.Lstat(dst); err == nil && !info.IsDir() {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}
	// An earlier copy may have left dst without owner write access.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			err = copySymlink(srcPath, dstPath)
		case entry.IsDir():
			err = fs.CopyDir(srcPath, dstPath)
		default:
			err = copyFile(srcPath, dstPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := removeExisting(dst); err != nil {
		return err
	}
	return os.Symlink(target, dst)
}

// removeExisting clears whatever dst holds so it can be recreated.
func removeExisting(dst string) error {
	info, err := os.Lstat(dst)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(dst)
	}
	return os.Remove(dst)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	// Unlinking first replaces read-only files and never writes through a link.
	if err := removeExisting(dst); err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// WriteFile writes data verbatim, creating parent directories.
func (OSFileSystem) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// WriteJSON writes v as indented JSON, creating parent directories.
func (fs OSFileSystem) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFile(path, append(data, '\n'))
}

// MkdirAll wraps os.MkdirAll.
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// RemoveAll wraps os.RemoveAll.
func (OSFileSystem) RemoveAll(path string) error { return os.RemoveAll(path) }
