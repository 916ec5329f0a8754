// Package logger provides a zap-based stats collector that logs metrics.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/huffpack/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger
	level  zapcore.Level
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a collector that logs at debug level.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	return NewWithLevel(logger, zapcore.DebugLevel)
}

// NewWithLevel creates a collector that logs at the given level.
func NewWithLevel(logger *zap.Logger, level zapcore.Level) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger, level: level}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	c.log("counter", zap.String("metric", name), zap.Int64("delta", delta))
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.log("gauge", zap.String("metric", name), zap.Int64("value", value))
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log("histogram", zap.String("metric", name), zap.Float64("value", value))
}

func (c *Collector) log(kind string, fields ...zap.Field) {
	if ce := c.logger.Check(c.level, kind); ce != nil {
		ce.Write(fields...)
	}
}
