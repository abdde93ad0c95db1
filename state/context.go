// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

import (
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

// Binding limits of a context. Adapters may support fewer; see the caps
// reported by the backend.
const (
	MaxColorTargets  = 8
	MaxVertexStreams = 16
	MaxTextureSlots  = 16
	MaxConstantSlots = 8
)

// Target selects one mip level and slice of a texture as a render target.
type Target struct {
	Texture *resource.Texture
	Level   int
	Slice   int
}

// IsZero reports whether no texture is selected.
func (t Target) IsZero() bool {
	return t.Texture == nil
}

// Size returns the size of the selected mip level.
func (t Target) Size() (width, height int) {
	if t.Texture == nil {
		return 0, 0
	}
	return t.Texture.LevelSize(t.Level)
}

// Targets is the render target group.
//
// ColorCount == 0 together with a zero Depth selects the implicit back
// buffer of the display.
type Targets struct {
	Color      [MaxColorTargets]Target
	ColorCount int
	Depth      Target

	// NoAutoDepth disables the managed depth buffer used when Depth is zero.
	NoAutoDepth bool
}

// IsBackBuffer reports whether the group selects the implicit back buffer.
func (t *Targets) IsBackBuffer() bool {
	return t.ColorCount == 0 && t.Depth.IsZero()
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

// IsEmpty reports whether r covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Viewport is the viewport group. An empty Rect covers the whole target.
type Viewport struct {
	Rect Rect

	// Normalized selects target-relative units in [0,1] for Rect and
	// Scissor instead of pixels.
	Normalized bool

	MinDepth, MaxDepth float32

	// Scissor is used when Raster.ScissorEnable is set. An empty Scissor
	// covers the viewport.
	Scissor Rect
}

// FillMode selects how triangles are rasterized.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
)

// Raster is the rasterizer group.
type Raster struct {
	Fill      FillMode
	Cull      gputypes.CullMode
	FrontFace gputypes.FrontFace

	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32

	ScissorEnable bool
}

// StencilOp is the action taken on a stencil value.
type StencilOp uint8

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrementClamp
	StencilDecrementClamp
	StencilInvert
	StencilIncrementWrap
	StencilDecrementWrap
)

// StencilFace is the stencil test of one triangle facing.
type StencilFace struct {
	Compare   gputypes.CompareFunction
	Fail      StencilOp
	DepthFail StencilOp
	Pass      StencilOp
}

// DepthStencil is the depth/stencil group.
type DepthStencil struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare gputypes.CompareFunction

	StencilEnable bool
	Front, Back   StencilFace
	ReadMask      uint8
	WriteMask     uint8
	Reference     uint8
}

// BlendComponent is the blend equation of the color or alpha channels.
type BlendComponent struct {
	Src gputypes.BlendFactor
	Dst gputypes.BlendFactor
	Op  gputypes.BlendOperation
}

// TargetBlend is the blend state of one color target.
type TargetBlend struct {
	Enable    bool
	Color     BlendComponent
	Alpha     BlendComponent
	WriteMask gputypes.ColorWriteMask
}

// Blend is the output merger group.
type Blend struct {
	Targets [MaxColorTargets]TargetBlend

	// Independent enables per-target blending. Otherwise Targets[0] applies
	// to every color target.
	Independent bool

	AlphaToCoverage bool
	Factor          [4]float32
	SampleMask      uint32
}

// Target returns the effective blend state of color target i.
func (b *Blend) Target(i int) TargetBlend {
	if !b.Independent {
		i = 0
	}
	return b.Targets[i]
}

// VertexStream binds a vertex buffer to one stream slot.
type VertexStream struct {
	Buffer *resource.Buffer
	Stride int
	Offset int
}

// Vertex is the vertex stream group.
type Vertex struct {
	Streams [MaxVertexStreams]VertexStream
	Count   int
}

// Index is the index buffer group. A nil Buffer selects non-indexed drawing.
type Index struct {
	Buffer *resource.Buffer
	Offset int
}

// SamplerState describes how a texture slot is sampled.
type SamplerState struct {
	MinFilter gputypes.FilterMode
	MagFilter gputypes.FilterMode
	MipFilter gputypes.FilterMode

	AddressU gputypes.AddressMode
	AddressV gputypes.AddressMode
	AddressW gputypes.AddressMode

	// Compare enables a comparison sampler when it is not Undefined.
	Compare gputypes.CompareFunction

	MaxAnisotropy uint16
	LodMinClamp   float32
	LodMaxClamp   float32
}

// TextureBinding binds a texture and its sampler to one slot.
type TextureBinding struct {
	Texture *resource.Texture
	Sampler SamplerState
}

// Textures is the texture slot group.
type Textures struct {
	Slots [MaxTextureSlots]TextureBinding
	Count int
}

// ConstantBinding binds a byte range of a constant buffer to one slot.
// A zero Size binds the rest of the buffer.
type ConstantBinding struct {
	Buffer *resource.Buffer
	Offset int
	Size   int
}

// Constants is the constant buffer group.
type Constants struct {
	Slots [MaxConstantSlots]ConstantBinding
	Count int
}

// Context is a complete snapshot of bindable GPU state.
//
// Context is comparable. Binding it never relies on state left over from a
// previous bind.
type Context struct {
	Targets      Targets
	Viewport     Viewport
	Raster       Raster
	DepthStencil DepthStencil
	Blend        Blend
	Program      *resource.Program
	Vertex       Vertex
	Index        Index
	Textures     Textures
	Constants    Constants
}

// Canonical returns a copy of c with every slot past the group counts
// zeroed. Contexts that differ only past their counts have equal
// canonical forms.
func (c *Context) Canonical() Context {
	out := *c
	for i := max(out.Targets.ColorCount, 0); i < MaxColorTargets; i++ {
		out.Targets.Color[i] = Target{}
	}
	for i := max(out.Vertex.Count, 0); i < MaxVertexStreams; i++ {
		out.Vertex.Streams[i] = VertexStream{}
	}
	for i := max(out.Textures.Count, 0); i < MaxTextureSlots; i++ {
		out.Textures.Slots[i] = TextureBinding{}
	}
	for i := max(out.Constants.Count, 0); i < MaxConstantSlots; i++ {
		out.Constants.Slots[i] = ConstantBinding{}
	}
	return out
}

// DefaultSampler returns trilinear filtering with clamped addressing.
func DefaultSampler() SamplerState {
	return SamplerState{
		MinFilter:   gputypes.FilterModeLinear,
		MagFilter:   gputypes.FilterModeLinear,
		MipFilter:   gputypes.FilterModeLinear,
		AddressU:    gputypes.AddressModeClampToEdge,
		AddressV:    gputypes.AddressModeClampToEdge,
		AddressW:    gputypes.AddressModeClampToEdge,
		LodMaxClamp: 32,
	}
}

// DefaultTargetBlend returns opaque output with every channel written.
func DefaultTargetBlend() TargetBlend {
	one := BlendComponent{Src: gputypes.BlendFactorOne, Dst: gputypes.BlendFactorZero, Op: gputypes.BlendOperationAdd}
	return TargetBlend{Color: one, Alpha: one, WriteMask: gputypes.ColorWriteMaskAll}
}

// Default returns the conventional starting context: the back buffer with
// a full viewport, back-face culling, a less-equal depth test with writes,
// and opaque blending.
func Default() Context {
	var ctx Context
	ctx.Viewport.MaxDepth = 1
	ctx.Raster = Raster{
		Cull:      gputypes.CullModeBack,
		FrontFace: gputypes.FrontFaceCCW,
	}
	keep := StencilFace{Compare: gputypes.CompareFunctionAlways}
	ctx.DepthStencil = DepthStencil{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: gputypes.CompareFunctionLessEqual,
		Front:        keep,
		Back:         keep,
		ReadMask:     0xFF,
		WriteMask:    0xFF,
	}
	for i := range ctx.Blend.Targets {
		ctx.Blend.Targets[i] = DefaultTargetBlend()
	}
	ctx.Blend.SampleMask = 0xFFFFFFFF
	return ctx
}
