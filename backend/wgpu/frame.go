// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// passInfo is a resolved target set.
type passInfo struct {
	colorViews   [state.MaxColorTargets]hal.TextureView
	colorFormats [state.MaxColorTargets]gputypes.TextureFormat
	colorCount   int
	resolve      hal.TextureView
	depthView    hal.TextureView
	depthFormat  gputypes.TextureFormat
	samples      uint32
}

// frame records the commands of one presented frame.
type frame struct {
	encoder   hal.CommandEncoder
	pass      hal.RenderPassEncoder
	info      passInfo
	transient []hal.BindGroup
	draws     int
}

func (f *frame) endPass() {
	if f.pass != nil {
		f.pass.End()
		f.pass = nil
	}
}

func (f *frame) releaseTransient(a *Adapter) {
	if a.device != nil {
		for _, bg := range f.transient {
			a.device.DestroyBindGroup(bg)
		}
	}
	f.transient = f.transient[:0]
}

// discard drops everything recorded since the last Present.
func (f *frame) discard(a *Adapter) {
	f.endPass()
	if f.encoder != nil {
		f.encoder.DiscardEncoding()
		f.encoder = nil
	}
	f.releaseTransient(a)
	f.draws = 0
}

func (a *Adapter) beginEncoding() error {
	if a.frame.encoder != nil {
		return nil
	}
	enc, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gfx_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("gfx_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	a.frame.encoder = enc
	return nil
}

// beginPass opens a render pass on the resolved targets. Aspects named in
// clear are cleared, the rest are loaded.
func (a *Adapter) beginPass(clear backend.ClearFlags, values backend.ClearValues) error {
	if err := a.beginEncoding(); err != nil {
		return err
	}
	info := &a.frame.info
	loadOp := func(f backend.ClearFlags) gputypes.LoadOp {
		if clear&f != 0 {
			return gputypes.LoadOpClear
		}
		return gputypes.LoadOpLoad
	}
	desc := &hal.RenderPassDescriptor{Label: "gfx_pass"}
	for i := 0; i < info.colorCount; i++ {
		att := hal.RenderPassColorAttachment{
			View:       info.colorViews[i],
			LoadOp:     loadOp(backend.ClearColor),
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor(values.Color),
		}
		if i == 0 && info.resolve != nil {
			att.ResolveTarget = info.resolve
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if info.depthView != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              info.depthView,
			DepthLoadOp:       loadOp(backend.ClearDepth),
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   values.Depth,
			StencilLoadOp:     loadOp(backend.ClearStencil),
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: uint32(values.Stencil),
		}
	}
	a.frame.pass = a.frame.encoder.BeginRenderPass(desc)
	a.applyDynamic()
	return nil
}

// applyDynamic sets the pass state that is not part of a pipeline.
func (a *Adapter) applyDynamic() {
	rp := a.frame.pass
	if rp == nil {
		return
	}
	vp := a.bound.viewport
	rp.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
	rp.SetScissorRect(
		uint32(max(vp.ScissorX, 0)), uint32(max(vp.ScissorY, 0)), //nolint:gosec // G115: clamped
		uint32(max(vp.ScissorWidth, 0)), uint32(max(vp.ScissorHeight, 0)), //nolint:gosec // G115: clamped
	)
	rp.SetStencilReference(uint32(a.bound.ds.Reference))
	c := clearColor(a.bound.blend.Factor)
	rp.SetBlendConstant(&c)
}

// resolveTargets turns a target set into pass attachments.
func (a *Adapter) resolveTargets(ts *backend.TargetSet) (passInfo, error) {
	var info passInfo
	if ts.BackBuffer {
		bb := a.back
		info.colorViews[0] = bb.colorView
		info.colorFormats[0] = bb.format
		info.colorCount = 1
		info.resolve = bb.resolveView
		info.samples = bb.samples
	} else {
		info.colorCount = ts.ColorCount
		info.samples = 1
		for i := 0; i < ts.ColorCount; i++ {
			v, err := targetViewOf(ts.Color[i])
			if err != nil {
				return passInfo{}, fmt.Errorf("color target %d: %w", i, err)
			}
			info.colorViews[i] = v.raw
			info.colorFormats[i] = v.format
			info.samples = v.samples
		}
	}
	if ts.Depth != nil {
		v, err := targetViewOf(ts.Depth)
		if err != nil {
			return passInfo{}, fmt.Errorf("depth target: %w", err)
		}
		info.depthView = v.raw
		info.depthFormat = v.format
		if info.colorCount == 0 {
			info.samples = v.samples
		}
	}
	return info, nil
}

func targetViewOf(tv *resource.TargetView) (*targetView, error) {
	if tv == nil {
		return nil, resource.ErrNotReady
	}
	v, ok := tv.Native().(*targetView)
	if !ok || v.raw == nil {
		return nil, fmt.Errorf("view %q: %w", tv.Descriptor().Label, resource.ErrNotReady)
	}
	return v, nil
}

// SetRenderTargets implements backend.Adapter. The next draw or clear
// opens a pass on the new targets.
func (a *Adapter) SetRenderTargets(ts *backend.TargetSet) error {
	if err := a.ready(); err != nil {
		return err
	}
	info, err := a.resolveTargets(ts)
	if err != nil {
		return err
	}
	a.frame.endPass()
	a.frame.info = info
	a.bound.targets = *ts
	return nil
}

// SetViewport implements backend.Adapter.
func (a *Adapter) SetViewport(vp backend.PixelViewport) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.viewport = vp
	a.applyDynamic()
	return nil
}

// SetRasterState implements backend.Adapter.
func (a *Adapter) SetRasterState(desc *state.Raster, _ resource.Native) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.raster = *desc
	return nil
}

// SetDepthStencilState implements backend.Adapter.
func (a *Adapter) SetDepthStencilState(desc *state.DepthStencil, _ resource.Native) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.ds = *desc
	if a.frame.pass != nil {
		a.frame.pass.SetStencilReference(uint32(desc.Reference))
	}
	return nil
}

// SetBlendState implements backend.Adapter.
func (a *Adapter) SetBlendState(desc *state.Blend, _ resource.Native) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.blend = *desc
	if a.frame.pass != nil {
		c := clearColor(desc.Factor)
		a.frame.pass.SetBlendConstant(&c)
	}
	return nil
}

// BindProgram implements backend.Adapter.
func (a *Adapter) BindProgram(p *resource.Program) error {
	if err := a.ready(); err != nil {
		return err
	}
	if p == nil {
		a.bound.program = nil
		return nil
	}
	prog, ok := p.Native().(*program)
	if !ok || prog.module == nil {
		return fmt.Errorf("program %q: %w", p.Descriptor().Label, resource.ErrNotReady)
	}
	a.bound.program = prog
	return nil
}

// BindVertexStream implements backend.Adapter.
func (a *Adapter) BindVertexStream(slot int, s *state.VertexStream) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.streams[slot] = *s
	return nil
}

// BindIndexBuffer implements backend.Adapter.
func (a *Adapter) BindIndexBuffer(ib *state.Index) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.index = *ib
	return nil
}

// BindTexture implements backend.Adapter.
func (a *Adapter) BindTexture(slot int, tex *resource.Texture, s resource.Native, _ *state.SamplerState) error {
	if err := a.ready(); err != nil {
		return err
	}
	if tex == nil {
		a.bound.textures[slot] = textureBinding{}
		return nil
	}
	t, ok := tex.Native().(*texture)
	if !ok || t.raw == nil {
		return fmt.Errorf("texture %q: %w", tex.Descriptor().Label, resource.ErrNotReady)
	}
	smp, _ := s.(*sampler)
	a.bound.textures[slot] = textureBinding{tex: t, sampler: smp}
	return nil
}

// BindConstants implements backend.Adapter.
func (a *Adapter) BindConstants(slot int, c *state.ConstantBinding) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.bound.consts[slot] = *c
	return nil
}

// Clear implements backend.Adapter. It starts a new pass on the bound
// targets with the selected aspects cleared.
func (a *Adapter) Clear(flags backend.ClearFlags, values backend.ClearValues) error {
	if err := a.ready(); err != nil {
		return err
	}
	if a.frame.info.colorCount == 0 && a.frame.info.depthView == nil {
		return fmt.Errorf("wgpu: clear without targets: %w", backend.ErrDeviceNotReady)
	}
	a.frame.endPass()
	return a.beginPass(flags, values)
}

// Draw implements backend.Adapter.
func (a *Adapter) Draw(vertexCount, firstVertex int) error {
	if err := a.prepareDraw(); err != nil {
		return err
	}
	a.frame.pass.Draw(uint32(vertexCount), 1, uint32(firstVertex), 0) //nolint:gosec // G115: validated by the caller
	a.frame.draws++
	return nil
}

// DrawIndexed implements backend.Adapter.
func (a *Adapter) DrawIndexed(indexCount, firstIndex, baseVertex int) error {
	ib := a.bound.index
	if ib.Buffer == nil {
		return fmt.Errorf("wgpu: indexed draw without an index buffer")
	}
	if err := a.prepareDraw(); err != nil {
		return err
	}
	b, ok := ib.Buffer.Native().(*buffer)
	if !ok || b.raw == nil {
		return fmt.Errorf("index buffer %q: %w", ib.Buffer.Descriptor().Label, resource.ErrNotReady)
	}
	format := gputypes.IndexFormatUint16
	if ib.Buffer.IndexStride() == 4 {
		format = gputypes.IndexFormatUint32
	}
	rp := a.frame.pass
	rp.SetIndexBuffer(b.raw, format, uint64(ib.Offset))                             //nolint:gosec // G115: validated offset
	rp.DrawIndexed(uint32(indexCount), 1, uint32(firstIndex), int32(baseVertex), 0) //nolint:gosec // G115: validated by the caller
	a.frame.draws++
	return nil
}

// prepareDraw opens a pass if needed and binds pipeline, bind group and
// vertex streams.
func (a *Adapter) prepareDraw() error {
	if err := a.ready(); err != nil {
		return err
	}
	p := a.bound.program
	if p == nil || p.module == nil {
		return fmt.Errorf("wgpu: draw without a program: %w", resource.ErrNotReady)
	}
	if a.frame.pass == nil {
		if err := a.beginPass(0, backend.ClearValues{}); err != nil {
			return err
		}
	}
	pl, err := a.pipelineFor(p, &a.frame.info)
	if err != nil {
		return err
	}
	bg, err := a.bindGroup(p)
	if err != nil {
		return err
	}
	rp := a.frame.pass
	rp.SetPipeline(pl.raw)
	rp.SetBindGroup(0, bg, nil)
	for i := range p.desc.VertexLayouts {
		s := a.bound.streams[i]
		if s.Buffer == nil {
			return fmt.Errorf("wgpu: program %q reads unbound vertex stream %d", p.desc.Label, i)
		}
		b, ok := s.Buffer.Native().(*buffer)
		if !ok || b.raw == nil {
			return fmt.Errorf("vertex stream %d: %w", i, resource.ErrNotReady)
		}
		rp.SetVertexBuffer(uint32(i), b.raw, uint64(s.Offset)) //nolint:gosec // G115: bounded slot and validated offset
	}
	return nil
}

// bindGroup builds the group 0 bind group of p from the bound slots.
// Unbound slots get the default objects. Bind groups live until Present.
func (a *Adapter) bindGroup(p *program) (hal.BindGroup, error) {
	d := a.defaults
	entries := make([]gputypes.BindGroupEntry, 0, p.desc.ConstantSlots+2*p.desc.TextureSlots)
	for i := 0; i < p.desc.ConstantSlots; i++ {
		raw, offset, size := d.constants, uint64(0), uint64(nullConstantSize)
		if c := a.bound.consts[i]; c.Buffer != nil {
			b, ok := c.Buffer.Native().(*buffer)
			if !ok || b.raw == nil {
				return nil, fmt.Errorf("constant slot %d: %w", i, resource.ErrNotReady)
			}
			raw, offset = b.raw, uint64(c.Offset) //nolint:gosec // G115: validated offset
			size = b.size - offset
			if c.Size > 0 {
				size = uint64(c.Size)
			}
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i), //nolint:gosec // G115: bounded slot counts
			Resource: gputypes.BufferBinding{Buffer: raw.NativeHandle(), Offset: offset, Size: size},
		})
	}
	for i := 0; i < p.desc.TextureSlots; i++ {
		view, smp := d.whiteView, d.sampler
		if tb := a.bound.textures[i]; tb.tex != nil {
			view = tb.tex.view
			if tb.sampler != nil {
				smp = tb.sampler.raw
			}
		}
		entries = append(entries,
			gputypes.BindGroupEntry{
				Binding:  p.textureBinding(i),
				Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
			},
			gputypes.BindGroupEntry{
				Binding:  p.samplerBinding(i),
				Resource: gputypes.SamplerBinding{Sampler: smp.NativeHandle()},
			})
	}
	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.desc.Label + "_bind",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	a.frame.transient = append(a.frame.transient, bg)
	return bg, nil
}

// Present implements backend.Adapter. It submits the recorded frame and
// waits for the GPU.
func (a *Adapter) Present() error {
	if err := a.ready(); err != nil {
		return err
	}
	defer a.frame.releaseTransient(a)
	a.frame.endPass()
	enc := a.frame.encoder
	if enc == nil {
		return nil
	}
	a.frame.encoder = nil
	draws := a.frame.draws
	a.frame.draws = 0

	if err := a.submit(enc); err != nil {
		return err
	}
	slogger().Debug("wgpu: frame presented", "draws", draws)
	return nil
}

func (a *Adapter) submit(enc hal.CommandEncoder) error {
	cmdBuf, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)

	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}
