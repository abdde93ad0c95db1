// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package state defines the render context: a complete, comparable snapshot
// of every piece of bindable GPU state needed to issue a draw call.
//
// A [Context] is a plain value. Applications build one per draw call or per
// frame and hand it to a binder, which compares it group by group against
// the last bound context and forwards only the groups that changed.
//
// Groups are compared as opaque blocks with ==, never field by field:
//
//	dirty := state.Diff(&bound, &next)
//	if dirty.Has(state.GroupBlend) {
//		// rebind the blend block
//	}
//
// [Raster], [DepthStencil], [Blend] and [SamplerState] also implement
// [Block], which gives backends a stable hash for caching native state
// objects.
package state
