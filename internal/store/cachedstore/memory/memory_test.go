package memory

import (
	"testing"

	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/store/cachedstore/cachestrategy/lru"
)

// recordingCollector remembers the last value of each metric.
type recordingCollector struct {
	counters map[string]int64
	gauges   map[string]int64
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		counters: make(map[string]int64),
		gauges:   make(map[string]int64),
	}
}

func (c *recordingCollector) IncCounter(name string, delta int64)         { c.counters[name] += delta }
func (c *recordingCollector) SetGauge(name string, value int64)           { c.gauges[name] = value }
func (c *recordingCollector) ObserveHistogram(name string, value float64) {}

func TestBackend_GetSet(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	// Initially empty.
	if _, ok := b.Get("in.txt"); ok {
		t.Error("Get() should return false for missing key")
	}

	// Set and get.
	b.Set("in.txt", []byte("hello"))
	data, ok := b.Get("in.txt")
	if !ok {
		t.Error("Get() should return true after Set")
	}
	if string(data) != "hello" {
		t.Errorf("Get() = %q, want %q", data, "hello")
	}

	b.Remove("in.txt")
	if _, ok := b.Get("in.txt"); ok {
		t.Error("Get() should return false after Remove")
	}
}

func TestBackend_Stats(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	c := newRecordingCollector()
	b := New(strategy, c)

	b.Set("a", []byte("data"))

	// Hit.
	b.Get("a")
	// Miss.
	b.Get("b")

	st := b.Stats()
	if st.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", st.Hits)
	}
	if st.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", st.Misses)
	}
	if st.Size != 1 {
		t.Errorf("Stats().Size = %d, want 1", st.Size)
	}

	if c.counters[stats.MetricCacheHits] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheHits, c.counters[stats.MetricCacheHits])
	}
	if c.counters[stats.MetricCacheMisses] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheMisses, c.counters[stats.MetricCacheMisses])
	}
	if c.gauges[stats.MetricCacheSize] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheSize, c.gauges[stats.MetricCacheSize])
	}
}

func TestBackend_Eviction(t *testing.T) {
	strategy, err := lru.New(2)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	b.Set("a", []byte("1"))
	b.Set("b", []byte("2"))
	b.Set("c", []byte("3"))

	if _, ok := b.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	if b.Stats().Size != 2 {
		t.Errorf("Stats().Size = %d, want 2", b.Stats().Size)
	}
}
