// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package bind applies render contexts to a backend adapter.
//
// A [Binder] remembers the last context it bound. Binding a new context
// validates it against the adapter caps, computes the groups that differ
// from the bound one and emits only those, always in the fixed group order
// of [state.Group]:
//
//	targets, viewport, raster, depth-stencil, blend,
//	program, vertex, index, textures, constants
//
// The result is the same as binding every group: a forced full rebind and
// the incremental path leave the adapter in the same state.
//
// Render target size derives from color target 0, else the depth target,
// else the back buffer. Without an explicit depth target the binder
// attaches a managed depth buffer that grows to the largest target seen
// and never shrinks.
package bind
