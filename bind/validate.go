// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"fmt"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

// validate checks ctx against the caps and the lifecycle state of every
// referenced resource.
func (b *Binder) validate(ctx *state.Context) error {
	if ctx == nil {
		return fmt.Errorf("%w: nil context", ErrInvalidContext)
	}
	if err := b.validateTargets(&ctx.Targets); err != nil {
		return err
	}
	if err := validateViewport(&ctx.Viewport); err != nil {
		return err
	}
	if ctx.Program != nil && ctx.Program.State() != resource.StateRestored {
		return invalid("program %q is %s", ctx.Program.Descriptor().Label, ctx.Program.State())
	}
	if err := b.validateVertex(ctx); err != nil {
		return err
	}
	if err := b.validateTextures(&ctx.Textures); err != nil {
		return err
	}
	return b.validateConstants(&ctx.Constants)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidContext}, args...)...)
}

func (b *Binder) validateTargets(ts *state.Targets) error {
	if ts.ColorCount < 0 || ts.ColorCount > b.caps.MaxColorTargets {
		return invalid("%d color targets, device supports %d", ts.ColorCount, b.caps.MaxColorTargets)
	}
	var w0, h0 int
	for i := 0; i < ts.ColorCount; i++ {
		t := ts.Color[i]
		if t.Texture == nil {
			return invalid("color target %d is nil", i)
		}
		d := t.Texture.Descriptor()
		if d.Usage&resource.TextureUsageRenderTarget == 0 {
			return invalid("color target %d (%q) is not a render target", i, d.Label)
		}
		if err := checkSubresource(&d, t, "color target"); err != nil {
			return err
		}
		if t.Texture.State() != resource.StateRestored {
			return invalid("color target %d (%q) is %s", i, d.Label, t.Texture.State())
		}
		w, h := t.Size()
		if i == 0 {
			w0, h0 = w, h
		} else if w != w0 || h != h0 {
			return invalid("color target %d is %dx%d, target 0 is %dx%d", i, w, h, w0, h0)
		}
	}
	if ts.Depth.IsZero() {
		return nil
	}
	d := ts.Depth.Texture.Descriptor()
	if d.Usage&resource.TextureUsageDepthStencil == 0 || !resource.IsDepthFormat(d.Format) {
		return invalid("depth target %q does not use a depth format", d.Label)
	}
	if err := checkSubresource(&d, ts.Depth, "depth target"); err != nil {
		return err
	}
	if ts.Depth.Texture.State() != resource.StateRestored {
		return invalid("depth target %q is %s", d.Label, ts.Depth.Texture.State())
	}
	if ts.ColorCount > 0 {
		w, h := ts.Depth.Size()
		if w < w0 || h < h0 {
			return invalid("depth target is %dx%d, smaller than color targets %dx%d", w, h, w0, h0)
		}
	}
	return nil
}

func checkSubresource(d *resource.TextureDescriptor, t state.Target, what string) error {
	if t.Level < 0 || t.Level >= d.MipLevels || t.Slice < 0 || t.Slice >= d.Layers {
		return invalid("%s %q has no level %d slice %d", what, d.Label, t.Level, t.Slice)
	}
	return nil
}

func validateViewport(vp *state.Viewport) error {
	if vp.MinDepth < 0 || vp.MaxDepth > 1 || vp.MinDepth > vp.MaxDepth {
		return invalid("depth range [%g,%g]", vp.MinDepth, vp.MaxDepth)
	}
	if vp.Rect.Width < 0 || vp.Rect.Height < 0 {
		return invalid("negative viewport size %gx%g", vp.Rect.Width, vp.Rect.Height)
	}
	return nil
}

func (b *Binder) validateVertex(ctx *state.Context) error {
	v := &ctx.Vertex
	if v.Count < 0 || v.Count > b.caps.MaxVertexStreams {
		return invalid("%d vertex streams, device supports %d", v.Count, b.caps.MaxVertexStreams)
	}
	for i := 0; i < v.Count; i++ {
		s := v.Streams[i]
		if s.Buffer == nil {
			continue
		}
		if err := checkBuffer(s.Buffer, resource.BufferVertex, "vertex stream", i); err != nil {
			return err
		}
		if s.Offset < 0 || s.Offset > s.Buffer.Size() || s.Stride < 0 {
			return invalid("vertex stream %d offset %d stride %d", i, s.Offset, s.Stride)
		}
	}
	if ib := ctx.Index.Buffer; ib != nil {
		if err := checkBuffer(ib, resource.BufferIndex, "index buffer", 0); err != nil {
			return err
		}
		if ctx.Index.Offset < 0 || ctx.Index.Offset > ib.Size() || ctx.Index.Offset%ib.IndexStride() != 0 {
			return invalid("index buffer offset %d", ctx.Index.Offset)
		}
	}
	return nil
}

func checkBuffer(buf *resource.Buffer, kind resource.BufferKind, what string, slot int) error {
	d := buf.Descriptor()
	if d.Kind != kind {
		return invalid("%s %d: buffer %q is a %s buffer", what, slot, d.Label, d.Kind)
	}
	if buf.State() != resource.StateRestored {
		return invalid("%s %d: buffer %q is %s", what, slot, d.Label, buf.State())
	}
	return nil
}

func (b *Binder) validateTextures(ts *state.Textures) error {
	if ts.Count < 0 || ts.Count > b.caps.MaxTextureSlots {
		return invalid("%d texture slots, device supports %d", ts.Count, b.caps.MaxTextureSlots)
	}
	for i := 0; i < ts.Count; i++ {
		tex := ts.Slots[i].Texture
		if tex == nil {
			continue
		}
		d := tex.Descriptor()
		if d.Usage&resource.TextureUsageSampled == 0 {
			return invalid("texture slot %d: %q is not sampled", i, d.Label)
		}
		if tex.State() != resource.StateRestored {
			return invalid("texture slot %d: %q is %s", i, d.Label, tex.State())
		}
	}
	return nil
}

func (b *Binder) validateConstants(cs *state.Constants) error {
	if cs.Count < 0 || cs.Count > b.caps.MaxConstantSlots {
		return invalid("%d constant slots, device supports %d", cs.Count, b.caps.MaxConstantSlots)
	}
	for i := 0; i < cs.Count; i++ {
		c := cs.Slots[i]
		if c.Buffer == nil {
			continue
		}
		if err := checkBuffer(c.Buffer, resource.BufferConstant, "constant slot", i); err != nil {
			return err
		}
		if c.Offset < 0 || c.Size < 0 || c.Offset+c.Size > c.Buffer.Size() || c.Offset >= c.Buffer.Size() {
			return invalid("constant slot %d: range [%d,+%d) outside %d bytes", i, c.Offset, c.Size, c.Buffer.Size())
		}
	}
	return nil
}
