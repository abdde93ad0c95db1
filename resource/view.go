// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TargetViewDescriptor selects the subresource a target view renders into.
type TargetViewDescriptor struct {
	Label  string
	Level  int
	Slice  int
	Format gputypes.TextureFormat
}

// TargetView is a render target view of one mip level and slice of a
// texture. It follows the pool of its texture and must be registered after
// it, so the registry destroys it first.
type TargetView struct {
	Lifecycle

	tex    *Texture
	desc   TargetViewDescriptor
	native Native
}

// Texture returns the viewed texture.
func (v *TargetView) Texture() *Texture {
	return v.tex
}

// Descriptor returns the view descriptor.
func (v *TargetView) Descriptor() TargetViewDescriptor {
	return v.desc
}

// Size returns the size of the viewed mip level.
func (v *TargetView) Size() (width, height int) {
	return v.tex.LevelSize(v.desc.Level)
}

// Native returns the backend view, or nil.
func (v *TargetView) Native() Native {
	return v.native
}

// DeviceCreate allocates views of managed textures.
func (v *TargetView) DeviceCreate() error {
	return v.Create(func() error {
		if v.tex.Pool() == PoolManaged {
			return v.alloc()
		}
		return nil
	})
}

// DeviceRestore allocates views of default-pool textures.
func (v *TargetView) DeviceRestore() error {
	return v.Restore(func() error {
		if v.tex.Pool() == PoolDefault {
			return v.alloc()
		}
		return nil
	})
}

// DeviceDispose releases views of default-pool textures.
func (v *TargetView) DeviceDispose() {
	v.Dispose(func() {
		if v.tex.Pool() == PoolDefault {
			v.native = destroyNative(v.native)
		}
	})
}

// DeviceDestroy releases the native view.
func (v *TargetView) DeviceDestroy() {
	v.Destroy(func() {
		v.native = destroyNative(v.native)
	})
}

// Detach removes the view from its texture's view list. Call it when the
// view is released for good.
func (v *TargetView) Detach() {
	v.tex.dropView(v)
}

func (v *TargetView) alloc() error {
	if v.native != nil {
		return nil
	}
	if v.tex.native == nil {
		return fmt.Errorf("view %q: %w", v.desc.Label, ErrNotReady)
	}
	dev := v.tex.reg.Device()
	if dev == nil {
		return ErrNoDevice
	}
	n, err := dev.NewTargetView(v.tex.native, &v.desc)
	if err != nil {
		return fmt.Errorf("view %q: %w", v.desc.Label, err)
	}
	v.native = n
	return nil
}
