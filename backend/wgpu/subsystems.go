// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/internal/cache"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// nullConstantSize is the size of the buffer bound to unused constant slots.
const nullConstantSize = 256

type deviceSubsystem struct{ a *Adapter }

func (s deviceSubsystem) DeviceCreate(opts *backend.Options) error {
	if err := s.a.open(); err != nil {
		return err
	}
	s.a.generation++
	s.a.applyMode(opts)
	return nil
}

func (s deviceSubsystem) DeviceRestore(opts *backend.Options) error {
	if s.a.device == nil {
		return backend.ErrDeviceNotReady
	}
	s.a.applyMode(opts)
	return nil
}

func (s deviceSubsystem) DeviceDispose() {
	s.a.frame.discard(s.a)
}

func (s deviceSubsystem) DeviceDestroy() {
	s.a.close()
	slogger().Info("wgpu: device closed")
}

type shaderSubsystem struct{ a *Adapter }

func (s shaderSubsystem) DeviceCreate(*backend.Options) error {
	if s.a.shaders == nil {
		s.a.shaders = cache.New[uint64, []uint32](DefaultShaderLimit, nil)
	}
	return nil
}

func (shaderSubsystem) DeviceRestore(*backend.Options) error { return nil }
func (shaderSubsystem) DeviceDispose()                       {}

// DeviceDestroy keeps compiled SPIR-V; it does not depend on the device.
func (s shaderSubsystem) DeviceDestroy() {
	if s.a.shaders != nil {
		st := s.a.shaders.Stats()
		slogger().Debug("wgpu: shader cache", "entries", st.Len, "hitRate", st.HitRate)
	}
}

// defaults are the objects bound to unused slots: group 0 layouts need
// every binding filled.
type defaults struct {
	white     hal.Texture
	whiteView hal.TextureView
	sampler   hal.Sampler
	constants hal.Buffer
}

type textureSubsystem struct{ a *Adapter }

func (s textureSubsystem) DeviceCreate(*backend.Options) error {
	a := s.a
	d := &defaults{}
	a.defaults = d

	white, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gfx_white",
		Size:          hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create default texture: %w", err)
	}
	d.white = white
	a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: white, MipLevel: 0},
		[]byte{0xFF, 0xFF, 0xFF, 0xFF},
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: 4, RowsPerImage: 1},
		&hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)

	view, err := a.device.CreateTextureView(white, &hal.TextureViewDescriptor{Label: "gfx_white_view"})
	if err != nil {
		return fmt.Errorf("create default texture view: %w", err)
	}
	d.whiteView = view

	def := state.DefaultSampler()
	sampler, err := a.device.CreateSampler(samplerDescriptor("gfx_default_sampler", &def))
	if err != nil {
		return fmt.Errorf("create default sampler: %w", err)
	}
	d.sampler = sampler
	return nil
}

func (s textureSubsystem) DeviceRestore(*backend.Options) error {
	a := s.a
	bb, err := newBackBuffer(a.device, &a.surface)
	if err != nil {
		return err
	}
	a.back = bb
	return nil
}

func (s textureSubsystem) DeviceDispose() {
	if s.a.back != nil && s.a.device != nil {
		s.a.back.destroy(s.a.device)
	}
	s.a.back = nil
}

func (s textureSubsystem) DeviceDestroy() {
	a := s.a
	d := a.defaults
	if d == nil || a.device == nil {
		a.defaults = nil
		return
	}
	if d.sampler != nil {
		a.device.DestroySampler(d.sampler)
	}
	if d.whiteView != nil {
		a.device.DestroyTextureView(d.whiteView)
	}
	if d.white != nil {
		a.device.DestroyTexture(d.white)
	}
	d.sampler, d.whiteView, d.white = nil, nil, nil
}

type bufferSubsystem struct{ a *Adapter }

func (s bufferSubsystem) DeviceCreate(*backend.Options) error {
	a := s.a
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx_null_constants",
		Size:  nullConstantSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create null constant buffer: %w", err)
	}
	a.queue.WriteBuffer(buf, 0, make([]byte, nullConstantSize))
	a.defaults.constants = buf
	return nil
}

func (bufferSubsystem) DeviceRestore(*backend.Options) error { return nil }
func (bufferSubsystem) DeviceDispose()                       {}

func (s bufferSubsystem) DeviceDestroy() {
	a := s.a
	if a.defaults != nil && a.defaults.constants != nil && a.device != nil {
		a.device.DestroyBuffer(a.defaults.constants)
		a.defaults.constants = nil
	}
}

type paramSubsystem struct{ a *Adapter }

func (paramSubsystem) DeviceCreate(*backend.Options) error { return nil }

func (s paramSubsystem) DeviceRestore(*backend.Options) error {
	s.a.bound = bound{}
	return nil
}

func (s paramSubsystem) DeviceDispose() {
	s.a.bound = bound{}
}

func (paramSubsystem) DeviceDestroy() {}

type drawSubsystem struct{ a *Adapter }

func (s drawSubsystem) DeviceCreate(*backend.Options) error {
	a := s.a
	gen := a.generation
	a.pipelines = cache.New(a.pipelineLimit, func(_ pipelineKey, p *pipeline) {
		if a.device != nil && a.generation == gen {
			a.device.DestroyRenderPipeline(p.raw)
		}
	})
	return nil
}

func (drawSubsystem) DeviceRestore(*backend.Options) error { return nil }

func (s drawSubsystem) DeviceDispose() {
	s.a.frame.discard(s.a)
}

func (s drawSubsystem) DeviceDestroy() {
	if s.a.pipelines != nil {
		s.a.pipelines.Purge()
	}
}
