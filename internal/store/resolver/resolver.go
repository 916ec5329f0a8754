// Package resolver assembles the store the CLI, the HTTP server and the fx
// modules use: local paths on disk, s3:// and gs:// URLs on per-bucket
// remote stores, with an object cache in front of each bucket.
package resolver

import (
	"context"
	"sync"

	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/store"
	"github.com/discochess/huffpack/internal/store/cachedstore"
	"github.com/discochess/huffpack/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/huffpack/internal/store/cachedstore/memory"
	"github.com/discochess/huffpack/internal/store/diskstore"
	"github.com/discochess/huffpack/internal/store/gcsstore"
	"github.com/discochess/huffpack/internal/store/s3store"
	"github.com/discochess/huffpack/internal/store/urlstore"
)

// DefaultCacheSize is the number of objects cached per remote bucket.
const DefaultCacheSize = 16

// Config describes where objects live.
type Config struct {
	// Root is the directory relative local names resolve against.
	// Default is the working directory.
	Root string

	// CacheSize is the number of objects cached per remote bucket.
	// Zero means DefaultCacheSize; negative disables caching.
	CacheSize int

	// Prefix is prepended to every key in remote buckets.
	Prefix string

	// S3Region and S3Endpoint override the AWS defaults.
	S3Region   string
	S3Endpoint string

	// Collector receives cache metrics. Optional.
	Collector stats.Collector
}

// Store is the assembled store. It remembers the caches it put in front of
// remote buckets so their statistics can be reported.
type Store struct {
	store.Store

	mu     sync.Mutex
	caches []*cachedstore.Store
}

// New builds a store from cfg. Remote buckets are connected on first use.
func New(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	local, err := diskstore.New(cfg.Root)
	if err != nil {
		return nil, err
	}

	r := &Store{}
	s3Factory := func(ctx context.Context, bucket string) (store.Store, error) {
		opts := []s3store.Option{s3store.WithPrefix(cfg.Prefix)}
		if cfg.S3Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3Region))
		}
		if cfg.S3Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.S3Endpoint))
		}
		st, err := s3store.New(ctx, bucket, opts...)
		if err != nil {
			return nil, err
		}
		return r.cached(st, cfg)
	}
	gcsFactory := func(ctx context.Context, bucket string) (store.Store, error) {
		st, err := gcsstore.New(ctx, bucket, gcsstore.WithPrefix(cfg.Prefix))
		if err != nil {
			return nil, err
		}
		return r.cached(st, cfg)
	}

	r.Store = urlstore.New(local,
		urlstore.WithScheme("s3", s3Factory),
		urlstore.WithScheme("gs", gcsFactory),
	)
	return r, nil
}

// CacheStats sums the statistics of every remote bucket cache opened so
// far.
func (r *Store) CacheStats() cachedstore.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total cachedstore.Stats
	for _, c := range r.caches {
		s := c.Stats()
		total.Hits += s.Hits
		total.Misses += s.Misses
		total.Size += s.Size
	}
	return total
}

func (r *Store) cached(st store.Store, cfg Config) (store.Store, error) {
	wrapped, err := Cached(st, cfg.CacheSize, cfg.Collector)
	if err != nil {
		return nil, err
	}
	r.track(wrapped)
	return wrapped, nil
}

func (r *Store) track(st store.Store) {
	cs, ok := st.(*cachedstore.Store)
	if !ok {
		return
	}
	r.mu.Lock()
	r.caches = append(r.caches, cs)
	r.mu.Unlock()
}

// Cached wraps st with an LRU cache of size objects. A size below one
// returns st unchanged.
func Cached(st store.Store, size int, collector stats.Collector) (store.Store, error) {
	if size < 1 {
		return st, nil
	}
	strategy, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return cachedstore.New(st, memory.New(strategy, collector)), nil
}
