package cachedstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store with caching.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// Open returns the object from the cache, reading it in full from the
// underlying store on a miss.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if data, ok := s.backend.Get(name); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	rc, err := s.underlying.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	s.backend.Set(name, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create invalidates any cached copy and writes through to the underlying
// store.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	s.backend.Remove(name)
	return s.underlying.Create(ctx, name)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
