// Package store defines the storage backend interface for reading input
// objects and writing output objects.
package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object does not exist in the store.
var ErrNotFound = errors.New("store: object not found")

// Store defines the interface for storage backends.
// Implementations map object names to their own path or key formats.
type Store interface {
	// Open returns a reader over the named object.
	// It returns ErrNotFound if the object does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a writer that replaces the named object.
	// The object is complete only once the writer is closed without error.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// Close releases any resources held by the store.
	Close() error
}

// Aborter is implemented by writers that can discard an object instead of
// committing it.
type Aborter interface {
	// Abort drops everything written so far. The object is left as it was
	// before Create.
	Abort() error
}

// Abort discards w if it implements Aborter and closes it otherwise.
func Abort(w io.WriteCloser) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}
