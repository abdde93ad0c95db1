// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureUsage maps resource usage flags to hal usage flags. Every texture
// can be written from the CPU and copied from, so shadow uploads and
// read-back work for all of them.
func textureUsage(u resource.TextureUsage) gputypes.TextureUsage {
	usage := gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	if u&resource.TextureUsageSampled != 0 {
		usage |= gputypes.TextureUsageTextureBinding
	}
	if u&(resource.TextureUsageRenderTarget|resource.TextureUsageDepthStencil) != 0 {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	return usage
}

func bufferUsage(k resource.BufferKind) gputypes.BufferUsage {
	switch k {
	case resource.BufferIndex:
		return gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	case resource.BufferConstant:
		return gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	}
	return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
}

// alignedSize rounds a buffer size up to the 4 byte copy alignment.
func alignedSize(n int) uint64 {
	return uint64((n + 3) &^ 3) //nolint:gosec // G115: sizes are validated positive
}

func textureDescriptor(d *resource.TextureDescriptor) *hal.TextureDescriptor {
	return &hal.TextureDescriptor{
		Label: d.Label,
		Size: hal.Extent3D{
			Width:              uint32(d.Width),  //nolint:gosec // G115: validated positive
			Height:             uint32(d.Height), //nolint:gosec // G115: validated positive
			DepthOrArrayLayers: uint32(d.Layers), //nolint:gosec // G115: validated positive
		},
		MipLevelCount: uint32(d.MipLevels),   //nolint:gosec // G115: validated positive
		SampleCount:   uint32(d.SampleCount), //nolint:gosec // G115: validated positive
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.Format,
		Usage:         textureUsage(d.Usage),
	}
}

// sampledViewDimension returns the view dimension used to sample d.
func sampledViewDimension(d *resource.TextureDescriptor) gputypes.TextureViewDimension {
	switch {
	case d.Cube:
		return gputypes.TextureViewDimensionCube
	case d.Layers > 1:
		return gputypes.TextureViewDimension2DArray
	}
	return gputypes.TextureViewDimension2D
}

func targetViewDescriptor(d *resource.TargetViewDescriptor) *hal.TextureViewDescriptor {
	return &hal.TextureViewDescriptor{
		Label:           d.Label,
		Format:          d.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    uint32(d.Level), //nolint:gosec // G115: validated against the texture
		MipLevelCount:   1,
		BaseArrayLayer:  uint32(d.Slice), //nolint:gosec // G115: validated against the texture
		ArrayLayerCount: 1,
	}
}

func samplerDescriptor(label string, s *state.SamplerState) *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: s.AddressU,
		AddressModeV: s.AddressV,
		AddressModeW: s.AddressW,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: s.MipFilter,
	}
}

func stencilOperation(op state.StencilOp) hal.StencilOperation {
	switch op {
	case state.StencilZero:
		return hal.StencilOperationZero
	case state.StencilReplace:
		return hal.StencilOperationReplace
	case state.StencilIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case state.StencilDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case state.StencilInvert:
		return hal.StencilOperationInvert
	case state.StencilIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case state.StencilDecrementWrap:
		return hal.StencilOperationDecrementWrap
	}
	return hal.StencilOperationKeep
}

func stencilFace(f *state.StencilFace) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     f.Compare,
		FailOp:      stencilOperation(f.Fail),
		DepthFailOp: stencilOperation(f.DepthFail),
		PassOp:      stencilOperation(f.Pass),
	}
}

// depthStencilState returns nil when the pass has no depth attachment.
// Disabled tests map to CompareFunctionAlways with writes off.
func depthStencilState(ds *state.DepthStencil, format gputypes.TextureFormat) *hal.DepthStencilState {
	if format == gputypes.TextureFormatUndefined {
		return nil
	}
	out := &hal.DepthStencilState{
		Format:       format,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		},
	}
	out.StencilBack = out.StencilFront
	if ds.DepthTest {
		out.DepthCompare = ds.DepthCompare
		out.DepthWriteEnabled = ds.DepthWrite
	}
	if ds.StencilEnable {
		out.StencilFront = stencilFace(&ds.Front)
		out.StencilBack = stencilFace(&ds.Back)
		out.StencilReadMask = uint32(ds.ReadMask)
		out.StencilWriteMask = uint32(ds.WriteMask)
	}
	return out
}

func blendComponent(c *state.BlendComponent) gputypes.BlendComponent {
	return gputypes.BlendComponent{
		SrcFactor: c.Src,
		DstFactor: c.Dst,
		Operation: c.Op,
	}
}

// colorTargets builds the color target states for formats. Without
// independent blending every target uses the blend of target 0.
func colorTargets(b *state.Blend, formats []gputypes.TextureFormat) []gputypes.ColorTargetState {
	out := make([]gputypes.ColorTargetState, len(formats))
	for i, f := range formats {
		tb := b.Targets[0]
		if b.Independent {
			tb = b.Targets[i]
		}
		out[i] = gputypes.ColorTargetState{
			Format:    f,
			WriteMask: tb.WriteMask,
		}
		if tb.Enable {
			out[i].Blend = &gputypes.BlendState{
				Color: blendComponent(&tb.Color),
				Alpha: blendComponent(&tb.Alpha),
			}
		}
	}
	return out
}

// primitiveState maps the raster block. Wireframe fill has no core
// equivalent and falls back to a line list.
func primitiveState(r *state.Raster) gputypes.PrimitiveState {
	topology := gputypes.PrimitiveTopologyTriangleList
	if r.Fill == state.FillWireframe {
		topology = gputypes.PrimitiveTopologyLineList
	}
	return gputypes.PrimitiveState{
		Topology:  topology,
		FrontFace: r.FrontFace,
		CullMode:  r.Cull,
	}
}

// multisampleState covers every sample; the sample mask and
// alpha-to-coverage of the blend block are not forwarded.
func multisampleState(samples uint32) gputypes.MultisampleState {
	return gputypes.MultisampleState{
		Count: samples,
		Mask:  0xFFFFFFFF,
	}
}

// vertexLayouts returns the program layouts with the strides bound on the
// streams. A zero stream stride keeps the program's stride.
func vertexLayouts(layouts []gputypes.VertexBufferLayout, strides *[state.MaxVertexStreams]int) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(layouts))
	copy(out, layouts)
	for i := range out {
		if i < len(strides) && strides[i] > 0 {
			out[i].ArrayStride = uint64(strides[i])
		}
	}
	return out
}

func clearColor(c [4]float32) gputypes.Color {
	return gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}
