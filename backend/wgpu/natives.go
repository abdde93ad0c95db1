// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"hash/fnv"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// native is embedded by every object handed to the core. Objects from an
// earlier device generation are dropped without touching the new device.
type native struct {
	a   *Adapter
	gen uint64
}

func (n native) current() bool {
	return n.a.device != nil && n.a.generation == n.gen
}

func (a *Adapter) native() native {
	return native{a: a, gen: a.generation}
}

type texture struct {
	native
	raw  hal.Texture
	view hal.TextureView
	desc resource.TextureDescriptor
}

func (t *texture) Destroy() {
	if t.raw == nil {
		return
	}
	if t.current() {
		t.a.device.DestroyTextureView(t.view)
		t.a.device.DestroyTexture(t.raw)
	}
	t.raw, t.view = nil, nil
}

type targetView struct {
	native
	raw     hal.TextureView
	format  gputypes.TextureFormat
	samples uint32
}

func (v *targetView) Destroy() {
	if v.raw != nil && v.current() {
		v.a.device.DestroyTextureView(v.raw)
	}
	v.raw = nil
}

type buffer struct {
	native
	raw  hal.Buffer
	size uint64
}

func (b *buffer) Destroy() {
	if b.raw != nil && b.current() {
		b.a.device.DestroyBuffer(b.raw)
	}
	b.raw = nil
}

type sampler struct {
	native
	raw hal.Sampler
}

func (s *sampler) Destroy() {
	if s.raw != nil && s.current() {
		s.a.device.DestroySampler(s.raw)
	}
	s.raw = nil
}

// stateObject stands for raster, depth-stencil and blend blocks. hal has
// no separate state objects; the blocks are folded into pipelines.
type stateObject struct {
	kind state.BlockKind
	hash uint64
}

func (*stateObject) Destroy() {}

func (a *Adapter) requireDevice() error {
	if a.device == nil {
		return fmt.Errorf("wgpu: no device")
	}
	return nil
}

// NewTexture implements resource.Device.
func (a *Adapter) NewTexture(desc *resource.TextureDescriptor) (resource.Native, error) {
	if err := a.requireDevice(); err != nil {
		return nil, err
	}
	raw, err := a.device.CreateTexture(textureDescriptor(desc))
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	view, err := a.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:     desc.Label + " (sampled)",
		Format:    desc.Format,
		Dimension: sampledViewDimension(desc),
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		a.device.DestroyTexture(raw)
		return nil, fmt.Errorf("create texture view %q: %w", desc.Label, err)
	}
	return &texture{native: a.native(), raw: raw, view: view, desc: *desc}, nil
}

// WriteTexture implements resource.Device. Only slice 0 can be written;
// array and cube faces above it are rejected.
func (a *Adapter) WriteTexture(n resource.Native, level, slice int, data []byte) error {
	t, ok := n.(*texture)
	if !ok || t.raw == nil {
		return fmt.Errorf("wgpu: %T is not a live texture", n)
	}
	if slice != 0 {
		return fmt.Errorf("%w: write to texture %q slice %d", ErrUnsupported, t.desc.Label, slice)
	}
	w, h := t.desc.LevelSize(level)
	bpp := resource.BytesPerPixel(t.desc.Format)
	a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.raw, MipLevel: uint32(level)}, //nolint:gosec // G115: validated level
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * bpp), //nolint:gosec // G115: bounded by texture size
			RowsPerImage: uint32(h),       //nolint:gosec // G115: bounded by texture size
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // G115: bounded by texture size
	)
	return nil
}

// NewTargetView implements resource.Device.
func (a *Adapter) NewTargetView(n resource.Native, desc *resource.TargetViewDescriptor) (resource.Native, error) {
	t, ok := n.(*texture)
	if !ok || t.raw == nil {
		return nil, fmt.Errorf("wgpu: %T is not a live texture", n)
	}
	raw, err := a.device.CreateTextureView(t.raw, targetViewDescriptor(desc))
	if err != nil {
		return nil, fmt.Errorf("create target view %q: %w", desc.Label, err)
	}
	return &targetView{
		native:  a.native(),
		raw:     raw,
		format:  desc.Format,
		samples: uint32(t.desc.SampleCount), //nolint:gosec // G115: validated positive
	}, nil
}

// NewBuffer implements resource.Device.
func (a *Adapter) NewBuffer(desc *resource.BufferDescriptor) (resource.Native, error) {
	if err := a.requireDevice(); err != nil {
		return nil, err
	}
	size := alignedSize(desc.Size)
	raw, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: bufferUsage(desc.Kind),
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}
	return &buffer{native: a.native(), raw: raw, size: size}, nil
}

// WriteBuffer implements resource.Device. Writes are padded to the copy
// alignment.
func (a *Adapter) WriteBuffer(n resource.Native, offset int, data []byte) error {
	b, ok := n.(*buffer)
	if !ok || b.raw == nil {
		return fmt.Errorf("wgpu: %T is not a live buffer", n)
	}
	if offset%4 != 0 {
		return fmt.Errorf("%w: buffer write at unaligned offset %d", ErrUnsupported, offset)
	}
	if len(data)%4 != 0 {
		padded := make([]byte, alignedSize(len(data)))
		copy(padded, data)
		data = padded
	}
	a.queue.WriteBuffer(b.raw, uint64(offset), data) //nolint:gosec // G115: validated offset
	return nil
}

// NewStateObject implements backend.Adapter. Samplers become hal samplers;
// the other blocks are kept as descriptors.
func (a *Adapter) NewStateObject(b state.Block) (resource.Native, error) {
	s, ok := b.(state.SamplerState)
	if !ok {
		return &stateObject{kind: b.Kind(), hash: b.Hash()}, nil
	}
	if err := a.requireDevice(); err != nil {
		return nil, err
	}
	raw, err := a.device.CreateSampler(samplerDescriptor(fmt.Sprintf("sampler_%016x", b.Hash()), &s))
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	return &sampler{native: a.native(), raw: raw}, nil
}

// hashSource keys the shader cache.
func hashSource(src string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(src))
	return h.Sum64()
}
