// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"

	"github.com/gogpu/gfx/resource"
)

// NewTexture creates a texture and brings it to the current device phase.
// Textures may be created before Init; they are allocated with the device.
func (r *Renderer) NewTexture(desc resource.TextureDescriptor) (*resource.Texture, error) {
	tex, err := resource.NewTexture(r.reg, desc)
	if err != nil {
		return nil, err
	}
	if _, err := r.reg.Attach(tex); err != nil {
		return nil, fmt.Errorf("gfx: texture %q: %w", desc.Label, err)
	}
	return tex, nil
}

// NewBuffer creates a buffer and brings it to the current device phase.
// data, if not nil, is written at offset 0.
func (r *Renderer) NewBuffer(desc resource.BufferDescriptor, data []byte) (*resource.Buffer, error) {
	buf, err := resource.NewBuffer(r.reg, desc)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := buf.Write(0, data); err != nil {
			return nil, err
		}
	}
	if _, err := r.reg.Attach(buf); err != nil {
		return nil, fmt.Errorf("gfx: buffer %q: %w", desc.Label, err)
	}
	return buf, nil
}

// NewProgram creates a program and compiles it if the device exists.
func (r *Renderer) NewProgram(desc resource.ProgramDescriptor) (*resource.Program, error) {
	p, err := resource.NewProgram(r.reg, desc)
	if err != nil {
		return nil, err
	}
	if _, err := r.reg.Attach(p); err != nil {
		return nil, fmt.Errorf("gfx: program %q: %w", desc.Label, err)
	}
	return p, nil
}

// Release destroys res and removes it from the registry. Releasing a
// texture releases its target views too. The bound state is invalidated
// so no stale reference survives in it.
func (r *Renderer) Release(res resource.Resource) {
	if tex, ok := res.(*resource.Texture); ok {
		for _, v := range append([]*resource.TargetView(nil), tex.Views()...) {
			v.DeviceDestroy()
			v.Detach()
			r.reg.Unregister(v)
		}
	}
	res.DeviceDestroy()
	r.reg.Unregister(res)
	r.binder.Invalidate()
}
