package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// DefaultPath is the document file used when none is configured.
const DefaultPath = "resumes.json"

// FileStore implements Store with a JSON file on local disk.
// Writes go to a temporary file in the same directory and are renamed over
// the target, so a crash mid-write leaves the previous document intact.
type FileStore struct {
	path   string
	perm   os.FileMode
	closed atomic.Bool
}

// NewFileStore creates a file store for path. Nothing is touched on disk
// until the first Write.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path, perm: 0o644}
}

// Read returns the file contents.
func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the file contents.
func (s *FileStore) Write(ctx context.Context, data []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Close marks the store closed. The file is left in place.
func (s *FileStore) Close() error {
	s.closed.Store(true)
	return nil
}
