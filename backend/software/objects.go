// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

// object is the native object of every software resource.
type object struct {
	a         *Adapter
	kind      string
	label     string
	size      int
	written   int
	destroyed bool
}

func (o *object) Destroy() {
	if o.destroyed {
		o.a.doubleFrees++
		return
	}
	o.destroyed = true
	o.a.live--
}

func (a *Adapter) newObject(kind, label string, size int) (*object, error) {
	if err := a.fail("new " + kind); err != nil {
		return nil, err
	}
	if !a.open {
		return nil, fmt.Errorf("software: new %s %q: device closed", kind, label)
	}
	a.live++
	a.created++
	return &object{a: a, kind: kind, label: label, size: size}, nil
}

func asObject(n resource.Native, kind string) (*object, error) {
	o, ok := n.(*object)
	if !ok || o == nil {
		return nil, fmt.Errorf("software: %T is not a software %s", n, kind)
	}
	if o.destroyed {
		return nil, fmt.Errorf("software: %s %q used after destroy", kind, o.label)
	}
	return o, nil
}

// NewTexture implements resource.Device.
func (a *Adapter) NewTexture(desc *resource.TextureDescriptor) (resource.Native, error) {
	size := 0
	for level := 0; level < desc.MipLevels; level++ {
		w, h := desc.LevelSize(level)
		size += w * h * resource.BytesPerPixel(desc.Format)
	}
	return a.newObject("texture", desc.Label, size*desc.Layers)
}

// WriteTexture implements resource.Device.
func (a *Adapter) WriteTexture(tex resource.Native, _, _ int, data []byte) error {
	o, err := asObject(tex, "texture")
	if err != nil {
		return err
	}
	o.written += len(data)
	return nil
}

// NewTargetView implements resource.Device.
func (a *Adapter) NewTargetView(tex resource.Native, desc *resource.TargetViewDescriptor) (resource.Native, error) {
	if _, err := asObject(tex, "texture"); err != nil {
		return nil, err
	}
	return a.newObject("view", desc.Label, 0)
}

// NewBuffer implements resource.Device.
func (a *Adapter) NewBuffer(desc *resource.BufferDescriptor) (resource.Native, error) {
	return a.newObject("buffer", desc.Label, desc.Size)
}

// WriteBuffer implements resource.Device.
func (a *Adapter) WriteBuffer(buf resource.Native, offset int, data []byte) error {
	o, err := asObject(buf, "buffer")
	if err != nil {
		return err
	}
	if offset+len(data) > o.size {
		return fmt.Errorf("software: write past end of buffer %q", o.label)
	}
	o.written += len(data)
	return nil
}

// NewProgram implements resource.Device.
func (a *Adapter) NewProgram(desc *resource.ProgramDescriptor) (resource.Native, error) {
	return a.newObject("program", desc.Label, len(desc.Source))
}

// NewStateObject implements backend.Adapter.
func (a *Adapter) NewStateObject(b state.Block) (resource.Native, error) {
	return a.newObject(b.Kind().String(), fmt.Sprintf("%016x", b.Hash()), 0)
}
