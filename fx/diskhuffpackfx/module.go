// Package diskhuffpackfx provides an fx module for a huffpack compressor
// backed by the local filesystem, with s3:// and gs:// names routed to
// cached remote stores.
package diskhuffpackfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/stats/logger"
	"github.com/discochess/huffpack/internal/store/resolver"
)

// Config holds configuration for the compressor.
type Config struct {
	// Dir is the directory relative names resolve against.
	// Default is the working directory.
	Dir string

	// CacheSize is the number of remote objects to cache in memory.
	// Default is 16.
	CacheSize int

	// Prefix is prepended to every key in s3:// and gs:// buckets.
	Prefix string

	// S3Region and S3Endpoint override the AWS defaults.
	S3Region   string
	S3Endpoint string
}

// Module provides a disk-backed huffpack compressor.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskhuffpack",
	fx.Provide(
		newStatsCollector,
		newCompressor,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("huffpack.stats"))
}

// Params holds dependencies for creating the compressor.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided compressor.
type Result struct {
	fx.Out

	Compressor *huffpack.Compressor
}

func newCompressor(p Params) (Result, error) {
	st, err := resolver.New(resolver.Config{
		Root:       p.Config.Dir,
		CacheSize:  p.Config.CacheSize,
		Prefix:     p.Config.Prefix,
		S3Region:   p.Config.S3Region,
		S3Endpoint: p.Config.S3Endpoint,
		Collector:  p.Collector,
	})
	if err != nil {
		return Result{}, err
	}

	c, err := huffpack.New(
		huffpack.WithStore(st),
		huffpack.WithStats(p.Collector),
		huffpack.WithLogger(p.Logger.Named("huffpack")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})

	return Result{Compressor: c}, nil
}
