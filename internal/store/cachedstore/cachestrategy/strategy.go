// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy defines the interface for cache eviction strategies, keyed by
// object name.
type Strategy interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte) bool
	Remove(key string) bool
	Len() int
}
