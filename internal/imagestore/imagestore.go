// Package imagestore owns the captured image files on behalf of review items.
// Each item holds exactly one reference into the store, created at ingest and
// released exactly once, on deletion. The filesystem is abstracted with
// go-billy so tests run against an in-memory filesystem.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v6"
)

// Store copies captured images into its filesystem and deletes them when the
// owning item is removed.
type Store struct {
	fs billy.Filesystem
}

// New creates a Store over the given filesystem.
func New(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// Add copies the image read from src into the store under the item's id,
// keeping the original file extension for display tooling. It returns the
// reference the item will own.
func (s *Store) Add(id, sourceFileName string, src io.Reader) (string, error) {
	ref := id + filepath.Ext(sourceFileName)

	dst, err := s.fs.Create(ref)
	if err != nil {
		return "", fmt.Errorf("failed to create image %q: %w", ref, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = s.fs.Remove(ref)
		return "", fmt.Errorf("failed to copy image %q: %w", ref, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close image %q: %w", ref, err)
	}

	return ref, nil
}

// Release deletes the image behind ref. Releasing a reference that is already
// gone is not an error; the handle is simply spent.
func (s *Store) Release(ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.fs.Remove(ref); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to release image %q: %w", ref, err)
	}
	return nil
}

// Open returns the stored image for reading.
func (s *Store) Open(ref string) (billy.File, error) {
	return s.fs.Open(ref)
}

// Resolve maps a reference to the path an external tool (the OCR binary) can
// address the image by.
func (s *Store) Resolve(ref string) string {
	return s.fs.Join(s.fs.Root(), ref)
}
