// Package urlstore routes object names to a backend chosen by URL scheme.
//
// Names of the form s3://bucket/key and gs://bucket/key are served by a
// per-bucket remote store created on first use. Any other name is handed to
// the fallback store unchanged.
package urlstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// ErrUnsupportedScheme is returned for a URL scheme with no registered factory.
var ErrUnsupportedScheme = errors.New("urlstore: unsupported scheme")

// Factory creates a store for a single bucket.
type Factory func(ctx context.Context, bucket string) (store.Store, error)

// Store dispatches operations by the scheme of the object name.
type Store struct {
	fallback  store.Store
	factories map[string]Factory

	mu      sync.Mutex
	buckets map[string]store.Store
}

// Option configures a Store.
type Option func(*Store)

// WithScheme registers a factory for names starting with scheme://.
func WithScheme(scheme string, f Factory) Option {
	return func(s *Store) {
		s.factories[scheme] = f
	}
}

// New creates a Store that sends plain names to fallback.
func New(fallback store.Store, opts ...Option) *Store {
	s := &Store{
		fallback:  fallback,
		factories: make(map[string]Factory),
		buckets:   make(map[string]store.Store),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the named object on the store its scheme selects.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	st, key, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return st.Open(ctx, key)
}

// Create creates the named object on the store its scheme selects.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	st, key, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return st.Create(ctx, key)
}

// Close closes the fallback and every bucket store opened so far.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for id, st := range s.buckets {
		if err := st.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", id, err))
		}
	}
	s.buckets = make(map[string]store.Store)
	if s.fallback != nil {
		if err := s.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) resolve(ctx context.Context, name string) (store.Store, string, error) {
	scheme, rest, ok := strings.Cut(name, "://")
	if !ok {
		if s.fallback == nil {
			return nil, "", fmt.Errorf("%w: %q has no scheme and no local store is configured", ErrUnsupportedScheme, name)
		}
		return s.fallback, name, nil
	}

	factory, ok := s.factories[scheme]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return nil, "", fmt.Errorf("invalid object URL %q: want %s://bucket/key", name, scheme)
	}

	id := scheme + "://" + bucket
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.buckets[id]; ok {
		return st, key, nil
	}
	st, err := factory(ctx, bucket)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", id, err)
	}
	s.buckets[id] = st
	return st, key, nil
}
