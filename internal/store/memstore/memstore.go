// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time checks.
var (
	_ store.Store   = (*Store)(nil)
	_ store.Aborter = (*objectWriter)(nil)
)

// Store is an in-memory store for testing.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	opens   map[string]int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		opens:   make(map[string]int),
	}
}

// Put sets the content of an object (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = bytes.Clone(data)
}

// Get returns the content of an object.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	return data, ok
}

// Opens returns how many times name has been opened.
func (s *Store) Opens(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens[name]
}

// Open returns a reader over a copy of the object.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	s.opens[name]++
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer whose content replaces the object on Close.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &objectWriter{store: s, name: name}, nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

type objectWriter struct {
	store *Store
	name  string
	buf   bytes.Buffer
	done  bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.store.Put(w.name, w.buf.Bytes())
	return nil
}

// Abort drops the buffered content without touching the stored object.
func (w *objectWriter) Abort() error {
	w.done = true
	w.buf.Reset()
	return nil
}
