// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package resource defines the lifecycle contract shared by every
// device-dependent GPU object and the registry that replays device
// transitions onto them.
//
// # Lifecycle
//
// A device moves through four phases: Create, Restore, Dispose and Destroy.
// Every resource implements the matching hooks of [Resource]. Objects that
// survive a device reset (managed pool) allocate their native object in
// DeviceCreate; objects that are lost on reset (render targets, depth
// buffers, dynamic buffers) allocate it in DeviceRestore and release it in
// DeviceDispose.
//
//	Uncreated --create--> Created --restore--> Restored
//	                         ^                    |  ^
//	                         |                 dispose |
//	                      destroy                 v  | restore
//	                         +---------------- Disposed
//
// [Lifecycle] can be embedded to get the transition rules for free.
//
// # Registry
//
// [Registry] keeps resources in registration order. Create and Restore
// visit them front to back, Dispose and Destroy back to front, so a resource
// registered later may depend on one registered earlier (a [TargetView]
// depends on its [Texture]).
//
//	reg := resource.NewRegistry()
//	reg.SetDevice(adapter)
//	tex, err := resource.NewTexture(reg, resource.TextureDescriptor{...})
//	if err != nil {
//		return err
//	}
//	if _, err := reg.Attach(tex); err != nil {
//		return err
//	}
package resource
