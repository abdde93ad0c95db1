// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidOptions is returned by Options.Validate.
	ErrInvalidOptions = errors.New("backend: invalid options")

	// ErrDeviceNotReady is returned when a primitive is called without a device.
	ErrDeviceNotReady = errors.New("backend: device not ready")
)

// Subsystem is one device-dependent part of an adapter. The renderer drives
// subsystems through the same four phases as resources.
type Subsystem interface {
	DeviceCreate(opts *Options) error
	DeviceRestore(opts *Options) error
	DeviceDispose()
	DeviceDestroy()
}

// Subsystems lists the lifecycle hooks of an adapter in creation order.
// Nil entries are skipped.
type Subsystems struct {
	// Device opens the native device and its swap chain.
	Device Subsystem

	Shaders  Subsystem
	Textures Subsystem
	Buffers  Subsystem
	Params   Subsystem
	Draw     Subsystem
}

// Caps describes the binding limits and features of an opened device.
type Caps struct {
	AdapterName string

	MaxColorTargets  int
	MaxVertexStreams int
	MaxTextureSlots  int
	MaxConstantSlots int

	MaxTextureSize int
	MaxSampleCount int
}

// Clamp limits caps to what a state.Context can express.
func (c Caps) Clamp() Caps {
	c.MaxColorTargets = min(c.MaxColorTargets, state.MaxColorTargets)
	c.MaxVertexStreams = min(c.MaxVertexStreams, state.MaxVertexStreams)
	c.MaxTextureSlots = min(c.MaxTextureSlots, state.MaxTextureSlots)
	c.MaxConstantSlots = min(c.MaxConstantSlots, state.MaxConstantSlots)
	return c
}

// String returns a short description for logs.
func (c Caps) String() string {
	return fmt.Sprintf("%s (targets=%d streams=%d textures=%d constants=%d maxTex=%d msaa=%d)",
		c.AdapterName, c.MaxColorTargets, c.MaxVertexStreams, c.MaxTextureSlots,
		c.MaxConstantSlots, c.MaxTextureSize, c.MaxSampleCount)
}

// Surface is the implicit back buffer of the display.
type Surface struct {
	Width, Height int
	Format        gputypes.TextureFormat
	SampleCount   int
}

// TargetSet is the resolved render target group passed to an adapter.
type TargetSet struct {
	// BackBuffer selects the implicit display target; Color and Depth
	// are unused except for an optional managed depth view.
	BackBuffer bool

	Color      [state.MaxColorTargets]*resource.TargetView
	ColorCount int
	Depth      *resource.TargetView

	// Width and Height are the derived target size.
	Width, Height int
}

// PixelViewport is the viewport group resolved to pixels.
type PixelViewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32

	// Scissor rectangle in pixels; covers the viewport when scissoring is off.
	ScissorX, ScissorY          int
	ScissorWidth, ScissorHeight int
}

// ClearFlags selects the buffers Clear touches.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// ClearValues holds the values used by Clear.
type ClearValues struct {
	Color   [4]float32
	Depth   float32
	Stencil uint8
}

// Adapter translates the abstract device model to one native API.
//
// Every primitive receives a complete description of its group; adapters
// never rely on the previous value of a group. Primitives are only called
// while the device is restored, in the fixed group order of the binder.
type Adapter interface {
	resource.Device

	// Name returns the adapter identifier (e.g. "software", "wgpu").
	Name() string

	// Subsystems returns the lifecycle hooks of the adapter.
	Subsystems() Subsystems

	// QueryCaps reports the limits of the opened device.
	QueryCaps() (Caps, error)

	// NewStateObject creates a native object for a state block.
	NewStateObject(b state.Block) (resource.Native, error)

	// BackBuffer describes the implicit display target.
	BackBuffer() Surface

	SetRenderTargets(ts *TargetSet) error
	SetViewport(vp PixelViewport) error
	SetRasterState(desc *state.Raster, obj resource.Native) error
	SetDepthStencilState(desc *state.DepthStencil, obj resource.Native) error
	SetBlendState(desc *state.Blend, obj resource.Native) error
	BindProgram(p *resource.Program) error

	// BindVertexStream binds slot; a nil Buffer clears it.
	BindVertexStream(slot int, s *state.VertexStream) error

	// BindIndexBuffer binds the index buffer; a nil Buffer clears it.
	BindIndexBuffer(ib *state.Index) error

	// BindTexture binds slot; a nil texture clears it and sampler is nil.
	BindTexture(slot int, tex *resource.Texture, sampler resource.Native, desc *state.SamplerState) error

	// BindConstants binds slot; a nil Buffer clears it.
	BindConstants(slot int, c *state.ConstantBinding) error

	Clear(flags ClearFlags, values ClearValues) error
	Draw(vertexCount, firstVertex int) error
	DrawIndexed(indexCount, firstIndex, baseVertex int) error
	Present() error
}

// RecreateChecker is implemented by adapters that need a full device
// recreate for changes Classify treats as a reset.
type RecreateChecker interface {
	RequiresRecreate(old, next *Options) bool
}
