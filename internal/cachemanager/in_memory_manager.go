package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/textflow/internal/log"
)

// DefaultExpiration is the lifetime of entries set with ttl 0.
const DefaultExpiration = 10 * time.Minute

// NoCleanup disables go-cache's janitor goroutine; expired entries are then
// dropped lazily on read.
const NoCleanup time.Duration = 0

// InMemoryManager is the go-cache backed Manager.
type InMemoryManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryManager creates a cache. useCase only labels log lines.
func NewInMemoryManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryManager[K, V] {
	return &InMemoryManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryManager[K, V]) Get(key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// GetWithRefresh retrieves an item and, when found, extends its ttl by
// putting it back.
func (c *InMemoryManager[K, V]) GetWithRefresh(key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(key)
	if !found {
		return value, false
	}
	c.Set(key, value, ttl)
	return value, true
}

// Set stores value under key. A ttl of 0 uses the default expiration.
func (c *InMemoryManager[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(string(key), value, ttl)
}

// Delete removes keys.
func (c *InMemoryManager[K, V]) Delete(keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush removes every entry.
func (c *InMemoryManager[K, V]) Flush() {
	c.cache.Flush()
	log.Debug(log.CatCache, "flushed", "cache", c.useCase)
}

// Count returns the number of entries, including expired ones not yet
// cleaned up.
func (c *InMemoryManager[K, V]) Count() int {
	return c.cache.ItemCount()
}
