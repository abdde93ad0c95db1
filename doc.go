// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfx is a cross-backend rendering core: a device lifecycle
// controller, a render context binder and a registry of device resources.
//
// # Overview
//
// Application code describes GPU state as plain values and never talks to a
// native graphics API. A [Renderer] owns one device, created through a
// [backend.Adapter] (the wgpu HAL adapter or the software reference
// adapter), and drives it through
//
//	Uninitialized -> Created -> Restored -> (Disposed <-> Restored)* -> Destroyed
//
// Every device-dependent object is a [resource.Resource] registered in the
// renderer's [resource.Registry]. The registry replays each transition onto
// its resources in registration order (reverse order for teardown), so
// textures, buffers and programs survive resets and full re-creates with
// their contents intact.
//
// # Quick Start
//
//	r := gfx.New()
//	if err := r.Init(gfx.Options{Software: true, Width: 800, Height: 600}); err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	prog, _ := r.NewProgram(resource.ProgramDescriptor{Source: wgsl})
//	ctx := state.Default()
//	ctx.Program = prog
//
//	for frame := range frames {
//		r.BindContext(&ctx, false)
//		r.Clear(backend.ClearAll, backend.ClearValues{Depth: 1})
//		r.Draw(3, 0)
//		r.Present()
//	}
//
// # Option changes
//
// [Renderer.ChangeOptions] picks the cheapest transition: nothing for
// equivalent options, Dispose and Restore for a new size, refresh rate or
// sample count, and a full Destroy and Create for a new window, monitor or
// backend. Listeners registered with [Renderer.Subscribe] are told about
// every transition. Options can be loaded from TOML or YAML files and
// hot-reloaded with [WatchOptions].
//
// # Binding
//
// [Renderer.BindContext] hands a [state.Context] to the binder of package
// bind, which diffs it against the last bound context and emits only the
// changed groups, in a fixed order, to the adapter.
//
// # Logging
//
// gfx is silent by default. See [SetLogger].
package gfx
