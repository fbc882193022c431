// Package cache provides a bounded, TTL-based in-process cache that is
// constructed once per process and injected into the services that use it.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Options sizes a cache. MaxEntries bounds the number of live entries, since every entry costs 1.
type Options struct {
	MaxEntries int64
	TTL        time.Duration
}

// Cache is a typed wrapper around ristretto. A nil *Cache is valid and caches nothing,
// so callers never need to branch on whether caching is enabled.
type Cache[K interface {
	ristretto.Key
	comparable
}, V any] struct {
	inner *ristretto.Cache[K, V]
	ttl   time.Duration

	// gens counts deletions per key; guarded by mu.
	mu   sync.Mutex
	gens map[K]uint64
}

// New builds a cache bounded by opts.MaxEntries whose entries expire after opts.TTL.
func New[K interface {
	ristretto.Key
	comparable
}, V any](opts Options) (*Cache[K, V], error) {
	if opts.MaxEntries <= 0 {
		return nil, fmt.Errorf("cache max entries must be positive, got %d", opts.MaxEntries)
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", opts.TTL)
	}
	inner, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: opts.MaxEntries * 10, // ristretto recommends 10x the expected item count
		MaxCost:     opts.MaxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache[K, V]{inner: inner, ttl: opts.TTL, gens: make(map[K]uint64)}, nil
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.inner.Get(key)
}

// Set stores value under key. It waits for the write buffer to drain so a Get
// issued right after Set observes the value (unless the admission policy dropped it).
func (c *Cache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	c.inner.SetWithTTL(key, value, 1, c.ttl)
	c.inner.Wait()
}

// Generation returns the number of times key has been deleted. Read it before
// loading a value and pass it to SetIfUnchanged.
func (c *Cache[K, V]) Generation(key K) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// SetIfUnchanged stores value only if key has not been deleted since gen was read,
// so a value loaded before a concurrent write is never cached after that write's Delete.
func (c *Cache[K, V]) SetIfUnchanged(key K, value V, gen uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.inner.SetWithTTL(key, value, 1, c.ttl)
	c.inner.Wait()
	return true
}

// Delete removes key and advances its generation. Deletes take effect immediately.
func (c *Cache[K, V]) Delete(keys ...K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.gens[key]++
		c.inner.Del(key)
	}
}

// Close stops the cache's background goroutines.
func (c *Cache[K, V]) Close() {
	if c == nil {
		return
	}
	c.inner.Close()
}
