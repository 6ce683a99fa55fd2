// Package storage persists generated images as flat files on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrInvalidName = errors.New("invalid file name")
)

// FileStore writes files into a single directory. Writes are atomic:
// data lands in a temp file that is renamed over the target, so an existing
// file with the same name is replaced in one step.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is required", ErrInvalidName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Path returns the on-disk path for name.
func (fs *FileStore) Path(name string) string {
	return filepath.Join(fs.dir, name)
}

// Save streams r into name and returns the written path and byte count.
func (fs *FileStore) Save(name string, r io.Reader) (string, int64, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory %s: %w", fs.dir, err)
	}

	tmp, err := os.CreateTemp(fs.dir, "."+name+".*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close %s: %w", name, err)
	}

	fullPath := fs.Path(name)
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return "", 0, fmt.Errorf("failed to rename %s: %w", name, err)
	}

	return fullPath, n, nil
}
