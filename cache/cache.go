// Package cache provides a small thread-safe LRU cache, used for decoded
// texture images. Texture pixel data is immutable, so a decoded image can
// be shared across composite passes and across documents; only the SVG
// pattern resources built from it are scoped to a single document.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the maximum number of entries when none is given.
// A configurator catalog holds a few dozen textures at most, so the cache
// normally never evicts; the bound only protects against a pathological
// data source.
const DefaultCapacity = 128

// LRU is a thread-safe fixed-capacity cache with least-recently-used
// eviction.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*list.Element
	order    *list.List
	capacity int

	// Statistics (atomic for lock-free reads).
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// entry is the payload stored in the LRU list.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		entries:  make(map[K]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get retrieves a cached value by key, marking it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	v := el.Value.(*entry[K, V]).value
	c.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Set stores a value, evicting the oldest entry when over capacity.
// The value is stored as-is, not copied.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[K, V]).key)
		c.evictions.Add(1)
	}
	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

// GetOrCreate returns the cached value for key, calling create on a miss
// and caching its result. When create fails, nothing is cached and the
// error is returned.
//
// create runs outside the cache lock; concurrent misses for the same key
// may both invoke it, and the second result wins. For texture decoding
// that is harmless duplicated work, not a correctness issue.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Len returns the current number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes every entry. Statistics are preserved.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element)
	c.order.Init()
}

// Stats reports cumulative hit/miss/eviction counts.
func (c *LRU[K, V]) Stats() (hits, misses, evictions uint64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}
