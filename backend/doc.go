// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend defines the contract between the renderer core and a
// native graphics API.
//
// An [Adapter] is the thin, swappable translation layer of one API. It
// creates native objects for resources, turns state blocks into native
// state objects, and exposes one primitive per bindable group. The core
// never calls a native API directly; it only talks to an Adapter.
//
// # Adapter Registration
//
// Adapters register a factory from an init function and are selected at
// runtime by name:
//
//	import _ "github.com/gogpu/gfx/backend/software"
//
//	a, err := backend.Select(&opts)
//
// With no name, [Default] picks the first registered adapter in priority
// order (wgpu, then software).
//
// # Device Options
//
// [Options] carries the window, display mode and device flags. [Classify]
// compares two option sets and picks the cheapest correct device
// transition:
//
//   - window or monitor handle, software/reference flag or backend name
//     changed: full recreate (Dispose, Destroy, Create, Restore)
//   - width, height, fullscreen, refresh rate, vsync, back-buffer format or
//     sample count changed: reset (Dispose, Restore)
//   - anything else: nothing to do
//
// Adapters that need a full recreate for more fields implement
// [RecreateChecker].
package backend
