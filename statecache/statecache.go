// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package statecache caches native state objects (raster, depth-stencil,
// blend and sampler) keyed by the hash of their state block.
//
// Creating a native state object can be as expensive as a pipeline
// compile on some backends, while a frame typically uses only a handful of
// distinct blocks. The cache creates each distinct block once and hands the
// same object back on every later bind.
//
//	c := statecache.New(adapter, 0)
//	obj, err := c.GetOrCreate(ctx.Blend)
//
// Cache is owned by the rendering thread of one device.
package statecache

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/internal/cache"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

// ErrNoFactory is returned when an object is requested before a factory is set.
var ErrNoFactory = errors.New("statecache: no factory")

// Factory creates native state objects. Backend adapters implement it.
type Factory interface {
	NewStateObject(b state.Block) (resource.Native, error)
}

type key struct {
	kind state.BlockKind
	hash uint64
}

// Cache maps state blocks to native state objects.
type Cache struct {
	factory Factory
	objects *cache.Cache[key, resource.Native]
}

// New creates a cache using f. A limit of 0 keeps every object until
// DestroyAll; otherwise the least recently used objects are destroyed once
// more than limit are cached.
func New(f Factory, limit int) *Cache {
	return &Cache{
		factory: f,
		objects: cache.New(limit, func(_ key, n resource.Native) {
			if n != nil {
				n.Destroy()
			}
		}),
	}
}

// SetFactory replaces the factory. Objects created by the previous factory
// must be destroyed first.
func (c *Cache) SetFactory(f Factory) {
	c.factory = f
}

// GetOrCreate returns the native object for b, creating it on a miss.
func (c *Cache) GetOrCreate(b state.Block) (resource.Native, error) {
	if c.factory == nil {
		return nil, ErrNoFactory
	}
	return c.objects.GetOrCreate(key{kind: b.Kind(), hash: b.Hash()}, func() (resource.Native, error) {
		n, err := c.factory.NewStateObject(b)
		if err != nil {
			return nil, fmt.Errorf("statecache: create %s object: %w", b.Kind(), err)
		}
		return n, nil
	})
}

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses uint64) {
	s := c.objects.Stats()
	return s.Hits, s.Misses
}

// HitRate returns the hit rate (0.0 to 1.0), or 0 before the first lookup.
func (c *Cache) HitRate() float64 {
	return c.objects.Stats().HitRate
}

// Size returns the number of cached objects.
func (c *Cache) Size() int {
	return c.objects.Len()
}

// DestroyAll destroys every cached object and empties the cache.
// Statistics are kept.
func (c *Cache) DestroyAll() {
	c.objects.Purge()
}
