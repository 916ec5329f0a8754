// Package s3store implements an AWS S3 storage backend.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/huffpack/internal/store"
)

// Compile-time checks.
var (
	_ store.Store   = (*Store)(nil)
	_ store.Aborter = (*uploadWriter)(nil)
)

// api is the subset of *s3.Client the store uses.
type api interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store is an AWS S3 storage backend.
type Store struct {
	client api
	bucket string
	prefix string
}

// New creates a new S3 store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s := &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucketName,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store) error

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) error {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
		if err != nil {
			return fmt.Errorf("loading AWS config with region: %w", err)
		}
		s.client = s3.NewFromConfig(cfg)
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return fmt.Errorf("loading AWS config for endpoint: %w", err)
		}
		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return nil
	}
}

// Open fetches the named object.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("getting object: %w", err)
	}
	return result.Body, nil
}

// Create returns a writer that uploads the object when closed.
// S3 needs the full body up front, so content is buffered in memory.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &uploadWriter{ctx: ctx, store: s, key: s.objectKey(name)}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

// objectKey returns the full object key for a name.
func (s *Store) objectKey(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

type uploadWriter struct {
	ctx    context.Context
	store  *Store
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *uploadWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.New("s3store: write to closed object")
	}
	return w.buf.Write(p)
}

func (w *uploadWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.store.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.store.bucket),
		Key:           aws.String(w.key),
		Body:          bytes.NewReader(w.buf.Bytes()),
		ContentLength: aws.Int64(int64(w.buf.Len())),
	})
	if err != nil {
		return fmt.Errorf("putting object: %w", err)
	}
	return nil
}

// Abort drops the buffered body. Nothing is uploaded.
func (w *uploadWriter) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}
