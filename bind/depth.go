// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

// AutoDepthFormat is the format of the managed depth buffer.
const AutoDepthFormat = gputypes.TextureFormatDepth24PlusStencil8

// autoDepth is the managed depth buffer. It grows to the largest target
// size requested and never shrinks; a sample count change rebuilds it.
type autoDepth struct {
	tex  *resource.Texture
	view *resource.TargetView
}

// ensure returns a view at least width x height with the given sample count.
func (d *autoDepth) ensure(reg *resource.Registry, width, height, samples int) (*resource.TargetView, error) {
	if d.tex != nil && d.tex.Descriptor().SampleCount != samples {
		d.release(reg)
	}
	if d.tex == nil {
		tex, err := resource.NewTexture(reg, resource.TextureDescriptor{
			Label:       "auto_depth",
			Width:       width,
			Height:      height,
			SampleCount: samples,
			Format:      AutoDepthFormat,
			Usage:       resource.TextureUsageDepthStencil,
		})
		if err != nil {
			return nil, err
		}
		if _, err := reg.Attach(tex); err != nil {
			return nil, fmt.Errorf("auto depth: %w", err)
		}
		view, _, err := tex.TargetView(0, 0)
		if err == nil {
			_, err = reg.Attach(view)
		}
		if err != nil {
			tex.DeviceDestroy()
			reg.Unregister(tex)
			return nil, fmt.Errorf("auto depth view: %w", err)
		}
		d.tex, d.view = tex, view
		slogger().Debug("bind: auto depth allocated", "width", width, "height", height, "samples", samples)
		return d.view, nil
	}

	w, h := d.tex.Width(), d.tex.Height()
	if width > w || height > h {
		nw, nh := max(width, w), max(height, h)
		if err := d.tex.Resize(nw, nh); err != nil {
			return nil, fmt.Errorf("auto depth resize: %w", err)
		}
		slogger().Debug("bind: auto depth grown", "width", nw, "height", nh)
	}
	return d.view, nil
}

// release destroys and unregisters the buffer.
func (d *autoDepth) release(reg *resource.Registry) {
	if d.view != nil {
		d.view.DeviceDestroy()
		d.view.Detach()
		reg.Unregister(d.view)
	}
	if d.tex != nil {
		d.tex.DeviceDestroy()
		reg.Unregister(d.tex)
	}
	d.tex, d.view = nil, nil
}

// bindTargets resolves ts to views and sets them on the adapter. It also
// records the target size used by the viewport group.
func (b *Binder) bindTargets(ts *state.Targets) error {
	set := backend.TargetSet{BackBuffer: ts.IsBackBuffer()}
	var samples int
	set.Width, set.Height, samples = b.targetSize(ts)

	set.ColorCount = ts.ColorCount
	for i := 0; i < ts.ColorCount; i++ {
		v, err := b.targetView(ts.Color[i])
		if err != nil {
			return err
		}
		set.Color[i] = v
	}

	switch {
	case !ts.Depth.IsZero():
		v, err := b.targetView(ts.Depth)
		if err != nil {
			return err
		}
		set.Depth = v
	case !ts.NoAutoDepth && set.Width > 0 && set.Height > 0:
		v, err := b.depth.ensure(b.reg, set.Width, set.Height, samples)
		if err != nil {
			return err
		}
		set.Depth = v
	}

	if err := b.adapter.SetRenderTargets(&set); err != nil {
		return err
	}
	b.width, b.height = set.Width, set.Height
	return nil
}

// targetSize returns the size and sample count ts renders at: the back
// buffer, else color target 0, else the depth target.
func (b *Binder) targetSize(ts *state.Targets) (width, height, samples int) {
	switch {
	case ts.IsBackBuffer():
		if b.adapter == nil {
			return 0, 0, 1
		}
		bb := b.adapter.BackBuffer()
		return bb.Width, bb.Height, max(bb.SampleCount, 1)
	case ts.ColorCount > 0 && !ts.Color[0].IsZero():
		width, height = ts.Color[0].Size()
		return width, height, max(ts.Color[0].Texture.Descriptor().SampleCount, 1)
	default:
		width, height = ts.Depth.Size()
		return width, height, 1
	}
}

// targetView returns the registered view of t, attaching it on first use.
func (b *Binder) targetView(t state.Target) (*resource.TargetView, error) {
	v, created, err := t.Texture.TargetView(t.Level, t.Slice)
	if err != nil {
		return nil, err
	}
	if created {
		if _, err := b.reg.Attach(v); err != nil {
			v.Detach()
			return nil, err
		}
	}
	return v, nil
}
