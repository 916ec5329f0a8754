// Package diskstore implements a local filesystem storage backend.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a local filesystem storage backend.
// Relative names resolve against the root; absolute names are used as is.
type Store struct {
	root string
}

// New creates a new disk store rooted at the given directory.
// The directory must exist.
func New(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{root: root}, nil
}

// Open opens the named file for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// Check for cancellation before starting I/O.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", name)
	}
	return f, nil
}

// Create creates or truncates the named file.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Create(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return f, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// path returns the filesystem path for an object name.
func (s *Store) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}
