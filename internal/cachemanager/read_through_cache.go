package cachemanager

import "time"

// ReadThroughCache computes values with fn on a miss and stores them.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           Manager[K, V]
	fn              func(input I) (V, error)
	shouldSkipCache bool
}

// NewReadThroughCache wraps cache. With shouldSkipCache every Get calls fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache Manager[K, V],
	fn func(input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key or computes it from input.
func (r *ReadThroughCache[K, V, I]) Get(key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(input)
	}

	if value, ok := r.cache.Get(key); ok {
		return value, nil
	}

	value, err := r.fn(input)
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value, ttl)

	return value, nil
}

// GetWithRefresh is Get, extending the ttl of a hit.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(input)
	}

	if value, ok := r.cache.GetWithRefresh(key, ttl); ok {
		return value, nil
	}

	value, err := r.fn(input)
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value, ttl)

	return value, nil
}

// Flush empties the underlying cache.
func (r *ReadThroughCache[K, V, I]) Flush() {
	r.cache.Flush()
}
