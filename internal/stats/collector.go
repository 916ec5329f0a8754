// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Codec metrics.
	MetricCompressions    = "huffpack_compress_total"
	MetricDecompressions  = "huffpack_decompress_total"
	MetricErrors          = "huffpack_errors_total"
	MetricBytesRead       = "huffpack_bytes_read_total"
	MetricBytesWritten    = "huffpack_bytes_written_total"
	MetricDistinctSymbols = "huffpack_distinct_symbols"
	MetricDuration        = "huffpack_duration_seconds"

	// Object cache metrics.
	MetricCacheHits   = "huffpack_cache_hits_total"
	MetricCacheMisses = "huffpack_cache_misses_total"
	MetricCacheSize   = "huffpack_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// Noop discards all metrics. It is the default when no collector is given.
type Noop struct{}

// Compile-time check that Noop implements Collector.
var _ Collector = (*Noop)(nil)

// NewNoop returns a collector that records nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) IncCounter(string, int64)         {}
func (*Noop) SetGauge(string, int64)           {}
func (*Noop) ObserveHistogram(string, float64) {}
