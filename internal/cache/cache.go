// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import "sync"

// Cache is a generic LRU cache with an eviction callback.
// A capacity of 0 means unlimited.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most capacity entries. onEvict, if not
// nil, is called for every entry that leaves the cache through eviction,
// Remove or Purge.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(node)
	return node.value, true
}

// Put stores value under key, replacing (and evicting) a previous value.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, value)
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the cache lock; a failing create stores nothing.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(node)
		return node.value, nil
	}
	c.misses++
	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.putLocked(key, value)
	return value, nil
}

// Remove drops key from the cache. It reports whether key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.dropLocked(node)
	return true
}

// RemoveFunc drops every entry whose key satisfies match and returns the
// number dropped.
func (c *Cache[K, V]) RemoveFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []*lruNode[K, V]
	for key, node := range c.entries {
		if match(key) {
			doomed = append(doomed, node)
		}
	}
	for _, node := range doomed {
		c.dropLocked(node)
	}
	return len(doomed)
}

// Purge drops every entry, oldest first.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for node := c.order.Oldest(); node != nil; node = c.order.Oldest() {
		c.dropLocked(node)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *Cache[K, V]) putLocked(key K, value V) {
	if old, ok := c.entries[key]; ok {
		c.dropLocked(old)
	}
	c.entries[key] = c.order.PushFront(key, value)
	for c.capacity > 0 && len(c.entries) > c.capacity {
		c.dropLocked(c.order.Oldest())
		c.evictions++
	}
}

// dropLocked removes node and reports it to onEvict. Caller holds c.mu.
func (c *Cache[K, V]) dropLocked(node *lruNode[K, V]) {
	c.order.Remove(node)
	delete(c.entries, node.key)
	if c.onEvict != nil {
		c.onEvict(node.key, node.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64

	// HitRate is Hits / (Hits + Misses), 0 when the cache was never queried.
	HitRate float64
}
