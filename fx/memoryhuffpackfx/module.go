// Package memoryhuffpackfx provides an fx module for an in-memory huffpack
// compressor. Useful for testing.
package memoryhuffpackfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/stats/logger"
	"github.com/discochess/huffpack/internal/store/memstore"
)

// Module provides an in-memory huffpack compressor for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryhuffpack",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newCompressor,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("huffpack.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the compressor.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided compressor.
type Result struct {
	fx.Out

	Compressor *huffpack.Compressor
}

func newCompressor(p Params) (Result, error) {
	c, err := huffpack.New(
		huffpack.WithStore(p.Store),
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
