// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements the backend adapter on top of the gogpu/wgpu
// hardware abstraction layer.
//
// The adapter opens a native device through hal (Vulkan, Metal, DX12 or GL,
// whichever is available first) or adopts a device owned by a host
// application ([WithDeviceProvider]). Programs are WGSL modules compiled to
// SPIR-V with gogpu/naga. Raster, depth-stencil and blend blocks are folded
// into render pipelines, which are cached per program, target formats and
// state.
//
// The back buffer is an offscreen texture owned by the adapter; Present
// submits the recorded frame and [Adapter.ReadBack] copies the back buffer
// to memory. Presenting to a window is left to the display.
//
// Importing the package registers the adapter under [backend.NameWGPU].
package wgpu
