// Package cachemanager provides small typed caches over patrickmn/go-cache.
//
// The engine is synchronous and single-owner, so unlike request-scoped
// caches these methods take no context.
package cachemanager

import "time"

// Manager is a typed key/value cache with per-entry expiry.
type Manager[K ~string, V any] interface {
	Get(key K) (V, bool)
	GetWithRefresh(key K, ttl time.Duration) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
	Count() int
}
