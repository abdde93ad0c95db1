// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides the bounded LRU used for compiled backend objects
// (shader modules, render pipelines).
//
// Evicted values are handed to an eviction callback so that native objects
// are released as soon as they leave the cache:
//
//	c := cache.New[uint64, hal.ShaderModule](64, func(_ uint64, m hal.ShaderModule) {
//		device.DestroyShaderModule(m)
//	})
//	mod, err := c.GetOrCreate(hash, compile)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
