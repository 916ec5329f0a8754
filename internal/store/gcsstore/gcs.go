// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time checks.
var (
	_ store.Store   = (*Store)(nil)
	_ store.Aborter = (*objectWriter)(nil)
)

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// New creates a new GCS store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Open returns a reader over the named object.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.bucket.Object(s.objectKey(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	return reader, nil
}

// Create returns a writer that uploads the named object. The upload is
// committed when the writer is closed.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	w := s.bucket.Object(s.objectKey(name)).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	return &objectWriter{Writer: w, cancel: cancel}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// objectKey returns the full object key for a name.
func (s *Store) objectKey(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

// objectWriter owns the context of its upload so the upload can be
// cancelled before it is committed.
type objectWriter struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *objectWriter) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

// Abort cancels the upload. GCS keeps the previous object, if any.
func (w *objectWriter) Abort() error {
	w.cancel()
	if err := w.Writer.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
