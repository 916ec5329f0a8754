// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/huffpack/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are registered lazily on first use.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
	}).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
	}).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    name,
			Buckets: prometheus.DefBuckets,
		})
	}).Observe(value)
}

// getOrCreate returns the metric registered under name, creating and
// registering it on first use. A metric already registered elsewhere under
// the same name is adopted.
func getOrCreate[M prometheus.Collector](c *Collector, m map[string]M, name string, create func() M) M {
	c.mu.RLock()
	metric, ok := m[name]
	c.mu.RUnlock()
	if ok {
		return metric
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if metric, ok = m[name]; ok {
		return metric
	}

	metric = create()
	if err := c.registry.Register(metric); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				metric = existing
			}
		}
		// Otherwise keep the unregistered metric; it still counts.
	}
	m[name] = metric
	return metric
}

// WriteTextfile writes every metric gathered from g to path in the
// Prometheus text format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
