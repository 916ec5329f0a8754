package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/stats/logger"
	promstats "github.com/discochess/huffpack/internal/stats/prometheus"
	"github.com/discochess/huffpack/internal/store/resolver"
)

// cli holds the objects shared by every command for one invocation.
var cli app

type app struct {
	logger     *zap.Logger
	collector  stats.Collector
	registry   *prometheus.Registry
	store      *resolver.Store
	compressor *huffpack.Compressor
}

// setup builds the logger, metrics and compressor from the global flags.
func (a *app) setup() error {
	a.logger = zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = l
	}

	switch {
	case metricsFile != "":
		a.registry = prometheus.NewRegistry()
		a.collector = promstats.New(a.registry)
	case verbose:
		a.collector = logger.New(a.logger.Named("stats"))
	default:
		a.collector = stats.NewNoop()
	}

	st, err := resolver.New(resolver.Config{
		CacheSize: cacheSize,
		Prefix:    remotePrefix,
		Collector: a.collector,
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	a.store = st

	a.compressor, err = huffpack.New(
		huffpack.WithStore(st),
		huffpack.WithStats(a.collector),
		huffpack.WithLogger(a.logger.Named("huffpack")),
	)
	return err
}

// shutdown closes the compressor and writes the metrics textfile.
func (a *app) shutdown() error {
	var errs []error
	if a.store != nil {
		if cs := a.store.CacheStats(); cs.Hits+cs.Misses > 0 {
			a.logger.Info("remote object cache",
				zap.Int64("hits", cs.Hits),
				zap.Int64("misses", cs.Misses),
				zap.String("hitRate", fmt.Sprintf("%.1f%%", cs.HitRate())),
			)
		}
	}
	if a.compressor != nil {
		if err := a.compressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.registry != nil {
		if err := promstats.WriteTextfile(metricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	if a.logger != nil {
		// Sync on stderr fails on some platforms; nothing to report.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}
