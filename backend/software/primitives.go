// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
)

// allocated is implemented by every device resource.
type allocated interface {
	Native() resource.Native
}

// check verifies in reference mode that r holds a native object.
func (a *Adapter) check(what string, r allocated) error {
	if !a.reference || r == nil {
		return nil
	}
	if r.Native() == nil {
		return fmt.Errorf("software: %s is not allocated: %w", what, resource.ErrNotReady)
	}
	if o, ok := r.Native().(*object); ok && o.destroyed {
		return fmt.Errorf("software: %s was destroyed: %w", what, resource.ErrNotReady)
	}
	return nil
}

// SetRenderTargets implements backend.Adapter.
func (a *Adapter) SetRenderTargets(ts *backend.TargetSet) error {
	if err := a.record("SetRenderTargets", -1); err != nil {
		return err
	}
	for i := 0; i < ts.ColorCount; i++ {
		if ts.Color[i] == nil {
			if a.reference {
				return fmt.Errorf("software: color target %d is nil: %w", i, resource.ErrNotReady)
			}
			continue
		}
		if err := a.check(fmt.Sprintf("color target %d", i), ts.Color[i]); err != nil {
			return err
		}
	}
	if ts.Depth != nil {
		if err := a.check("depth target", ts.Depth); err != nil {
			return err
		}
	}
	a.bound.Targets = *ts
	return nil
}

// SetViewport implements backend.Adapter.
func (a *Adapter) SetViewport(vp backend.PixelViewport) error {
	if err := a.record("SetViewport", -1); err != nil {
		return err
	}
	if a.reference && (vp.Width < 0 || vp.Height < 0) {
		return fmt.Errorf("software: negative viewport %vx%v", vp.Width, vp.Height)
	}
	a.bound.Viewport = vp
	return nil
}

func (a *Adapter) checkStateObject(kind state.BlockKind, obj resource.Native) error {
	if !a.reference {
		return nil
	}
	if _, err := asObject(obj, kind.String()); err != nil {
		return err
	}
	return nil
}

// SetRasterState implements backend.Adapter.
func (a *Adapter) SetRasterState(desc *state.Raster, obj resource.Native) error {
	if err := a.record("SetRasterState", -1); err != nil {
		return err
	}
	if err := a.checkStateObject(state.KindRaster, obj); err != nil {
		return err
	}
	a.bound.Raster = *desc
	return nil
}

// SetDepthStencilState implements backend.Adapter.
func (a *Adapter) SetDepthStencilState(desc *state.DepthStencil, obj resource.Native) error {
	if err := a.record("SetDepthStencilState", -1); err != nil {
		return err
	}
	if err := a.checkStateObject(state.KindDepthStencil, obj); err != nil {
		return err
	}
	a.bound.DepthStencil = *desc
	return nil
}

// SetBlendState implements backend.Adapter.
func (a *Adapter) SetBlendState(desc *state.Blend, obj resource.Native) error {
	if err := a.record("SetBlendState", -1); err != nil {
		return err
	}
	if err := a.checkStateObject(state.KindBlend, obj); err != nil {
		return err
	}
	a.bound.Blend = *desc
	return nil
}

// BindProgram implements backend.Adapter.
func (a *Adapter) BindProgram(p *resource.Program) error {
	if err := a.record("BindProgram", -1); err != nil {
		return err
	}
	if p != nil {
		if err := a.check("program", p); err != nil {
			return err
		}
	}
	a.bound.Program = p
	return nil
}

// BindVertexStream implements backend.Adapter.
func (a *Adapter) BindVertexStream(slot int, s *state.VertexStream) error {
	if err := a.record("BindVertexStream", slot); err != nil {
		return err
	}
	if slot < 0 || slot >= len(a.bound.Vertex) {
		return fmt.Errorf("software: vertex stream %d out of range", slot)
	}
	if s.Buffer != nil {
		if err := a.check(fmt.Sprintf("vertex stream %d", slot), s.Buffer); err != nil {
			return err
		}
	}
	a.bound.Vertex[slot] = *s
	return nil
}

// BindIndexBuffer implements backend.Adapter.
func (a *Adapter) BindIndexBuffer(ib *state.Index) error {
	if err := a.record("BindIndexBuffer", -1); err != nil {
		return err
	}
	if ib.Buffer != nil {
		if err := a.check("index buffer", ib.Buffer); err != nil {
			return err
		}
	}
	a.bound.Index = *ib
	return nil
}

// BindTexture implements backend.Adapter.
func (a *Adapter) BindTexture(slot int, tex *resource.Texture, sampler resource.Native, desc *state.SamplerState) error {
	if err := a.record("BindTexture", slot); err != nil {
		return err
	}
	if slot < 0 || slot >= len(a.bound.Textures) {
		return fmt.Errorf("software: texture slot %d out of range", slot)
	}
	if tex == nil {
		a.bound.Textures[slot] = TextureSlot{}
		return nil
	}
	if err := a.check(fmt.Sprintf("texture slot %d", slot), tex); err != nil {
		return err
	}
	if err := a.checkStateObject(state.KindSampler, sampler); err != nil {
		return err
	}
	a.bound.Textures[slot] = TextureSlot{Texture: tex, Sampler: *desc}
	return nil
}

// BindConstants implements backend.Adapter.
func (a *Adapter) BindConstants(slot int, c *state.ConstantBinding) error {
	if err := a.record("BindConstants", slot); err != nil {
		return err
	}
	if slot < 0 || slot >= len(a.bound.Constants) {
		return fmt.Errorf("software: constant slot %d out of range", slot)
	}
	if c.Buffer != nil {
		if err := a.check(fmt.Sprintf("constant slot %d", slot), c.Buffer); err != nil {
			return err
		}
	}
	a.bound.Constants[slot] = *c
	return nil
}

// Clear implements backend.Adapter.
func (a *Adapter) Clear(flags backend.ClearFlags, _ backend.ClearValues) error {
	if err := a.record("Clear", -1); err != nil {
		return err
	}
	if a.reference && flags&(backend.ClearDepth|backend.ClearStencil) != 0 && a.bound.Targets.Depth == nil {
		return fmt.Errorf("software: clear depth without a depth target: %w", resource.ErrNotReady)
	}
	a.stats.Clears++
	return nil
}

// Draw implements backend.Adapter.
func (a *Adapter) Draw(vertexCount, firstVertex int) error {
	if err := a.record("Draw", -1); err != nil {
		return err
	}
	if err := a.checkDraw(); err != nil {
		return err
	}
	if vertexCount < 0 || firstVertex < 0 {
		return fmt.Errorf("software: draw %d vertices from %d", vertexCount, firstVertex)
	}
	a.stats.Draws++
	return nil
}

// DrawIndexed implements backend.Adapter.
func (a *Adapter) DrawIndexed(indexCount, firstIndex, baseVertex int) error {
	if err := a.record("DrawIndexed", -1); err != nil {
		return err
	}
	if err := a.checkDraw(); err != nil {
		return err
	}
	ib := a.bound.Index
	if ib.Buffer == nil {
		return fmt.Errorf("software: indexed draw without an index buffer")
	}
	if indexCount < 0 || firstIndex < 0 {
		return fmt.Errorf("software: draw %d indices from %d", indexCount, firstIndex)
	}
	if end := ib.Offset + (firstIndex+indexCount)*ib.Buffer.IndexStride(); end > ib.Buffer.Size() {
		return fmt.Errorf("software: indexed draw reads to byte %d of %d", end, ib.Buffer.Size())
	}
	a.stats.Draws++
	return nil
}

func (a *Adapter) checkDraw() error {
	if !a.reference {
		return nil
	}
	if a.bound.Program == nil {
		return fmt.Errorf("software: draw without a program: %w", resource.ErrNotReady)
	}
	return a.check("program", a.bound.Program)
}

// Present implements backend.Adapter.
func (a *Adapter) Present() error {
	if err := a.record("Present", -1); err != nil {
		return err
	}
	a.stats.Presents++
	return nil
}
