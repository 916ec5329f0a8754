package huffpack

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/store"
	"github.com/discochess/huffpack/internal/store/diskstore"
)

// Option configures a Compressor.
type Option interface {
	apply(*options)
}

// options holds the compressor configuration.
type options struct {
	store   store.Store
	useDisk bool
	stats   stats.Collector
	logger  *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		useDisk: true,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the storage backend inputs and outputs are resolved on.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
		o.useDisk = false
	})
}

// WithDir resolves relative names against dir on the local filesystem.
func WithDir(dir string) (Option, error) {
	st, err := diskStore(dir)
	if err != nil {
		return nil, err
	}
	return WithStore(st), nil
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

func diskStore(dir string) (store.Store, error) {
	st, err := diskstore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return st, nil
}
