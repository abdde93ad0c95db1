// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// backBuffer is the offscreen display target. With multisampling the
// color texture is resolved into a single-sample texture.
type backBuffer struct {
	color       hal.Texture
	colorView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView

	width, height uint32
	format        gputypes.TextureFormat
	samples       uint32
}

func newBackBuffer(device hal.Device, s *backend.Surface) (*backBuffer, error) {
	bb := &backBuffer{
		width:   uint32(s.Width),  //nolint:gosec // G115: validated positive
		height:  uint32(s.Height), //nolint:gosec // G115: validated positive
		format:  s.Format,
		samples: uint32(max(s.SampleCount, 1)), //nolint:gosec // G115: validated 1..8
	}
	size := hal.Extent3D{Width: bb.width, Height: bb.height, DepthOrArrayLayers: 1}

	usage := gputypes.TextureUsageRenderAttachment
	if bb.samples == 1 {
		usage |= gputypes.TextureUsageCopySrc
	}
	color, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gfx_back_buffer",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   bb.samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        bb.format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create back buffer: %w", err)
	}
	bb.color = color
	bb.colorView, err = device.CreateTextureView(color, &hal.TextureViewDescriptor{Label: "gfx_back_buffer_view"})
	if err != nil {
		bb.destroy(device)
		return nil, fmt.Errorf("create back buffer view: %w", err)
	}
	if bb.samples == 1 {
		return bb, nil
	}

	bb.resolveTex, err = device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gfx_back_buffer_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        bb.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		bb.destroy(device)
		return nil, fmt.Errorf("create resolve texture: %w", err)
	}
	bb.resolveView, err = device.CreateTextureView(bb.resolveTex, &hal.TextureViewDescriptor{Label: "gfx_back_buffer_resolve_view"})
	if err != nil {
		bb.destroy(device)
		return nil, fmt.Errorf("create resolve view: %w", err)
	}
	return bb, nil
}

// presented returns the single-sample texture holding the final image.
func (bb *backBuffer) presented() hal.Texture {
	if bb.resolveTex != nil {
		return bb.resolveTex
	}
	return bb.color
}

func (bb *backBuffer) destroy(device hal.Device) {
	if bb.resolveView != nil {
		device.DestroyTextureView(bb.resolveView)
		bb.resolveView = nil
	}
	if bb.resolveTex != nil {
		device.DestroyTexture(bb.resolveTex)
		bb.resolveTex = nil
	}
	if bb.colorView != nil {
		device.DestroyTextureView(bb.colorView)
		bb.colorView = nil
	}
	if bb.color != nil {
		device.DestroyTexture(bb.color)
		bb.color = nil
	}
}

// ReadBack copies the last presented back buffer into an RGBA image.
func (a *Adapter) ReadBack() (*image.RGBA, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	bb := a.back
	w, h := bb.width, bb.height

	// Copies need rows aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(staging)

	enc, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gfx_readback"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("gfx_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	src := bb.presented()
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: src,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.CopyTextureToBuffer(src, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: src, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: src,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := a.submit(enc); err != nil {
		return nil, err
	}

	raw := make([]byte, stagingSize)
	if err := a.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copyRows(img.Pix, raw, int(bytesPerRow), int(alignedBytesPerRow), int(h), bb.format == gputypes.TextureFormatBGRA8Unorm)
	return img, nil
}

// copyRows strips row padding from src and optionally swaps red and blue.
func copyRows(dst, src []byte, rowBytes, srcStride, rows int, swap bool) {
	for y := 0; y < rows; y++ {
		row := dst[y*rowBytes : (y+1)*rowBytes]
		copy(row, src[y*srcStride:y*srcStride+rowBytes])
		if swap {
			for i := 0; i+3 < len(row); i += 4 {
				row[i], row[i+2] = row[i+2], row[i]
			}
		}
	}
}
