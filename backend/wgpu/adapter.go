// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/internal/cache"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	backend.Register(backend.NameWGPU, func() backend.Adapter { return New() })
}

// Adapter errors.
var (
	// ErrNoGPU is returned when no hal backend yields a usable adapter.
	ErrNoGPU = errors.New("wgpu: no GPU adapter found")

	// ErrUnsupported is returned for requests the hal layer cannot express.
	ErrUnsupported = errors.New("wgpu: unsupported")
)

// Defaults used when options leave them open.
const (
	DefaultWidth  = 640
	DefaultHeight = 480

	// DefaultPipelineLimit bounds the render pipeline cache.
	DefaultPipelineLimit = 256

	// DefaultShaderLimit bounds the compiled shader cache.
	DefaultShaderLimit = 64

	fenceTimeout = 5 * time.Second
)

// DefaultBackends is the order in which hal backends are tried.
var DefaultBackends = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBackends sets the hal backends tried when opening a device.
func WithBackends(b ...gputypes.Backend) Option {
	return func(a *Adapter) { a.backends = b }
}

// WithPipelineLimit bounds the number of cached render pipelines.
func WithPipelineLimit(n int) Option {
	return func(a *Adapter) { a.pipelineLimit = n }
}

// WithDeviceProvider makes the adapter render with a device owned by the
// host application instead of opening its own. The provider must also
// expose HalDevice() and HalQueue(). The adopted device is never destroyed.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(a *Adapter) { a.provider = p }
}

// Adapter renders through gogpu/wgpu hal.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	backends      []gputypes.Backend
	pipelineLimit int
	provider      gpucontext.DeviceProvider

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	info     string

	opts    backend.Options
	surface backend.Surface

	// generation changes whenever a device is opened; natives of an older
	// generation are not released through the current device.
	generation uint64

	shaders   *cache.Cache[uint64, []uint32]
	pipelines *cache.Cache[pipelineKey, *pipeline]

	back     *backBuffer
	defaults *defaults
	frame    frame
	bound    bound

	programID uint64
}

var (
	_ backend.Adapter         = (*Adapter)(nil)
	_ backend.RecreateChecker = (*Adapter)(nil)
)

// New creates an adapter. No device is opened until the device subsystem
// is created.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		backends:      DefaultBackends,
		pipelineLimit: DefaultPipelineLimit,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Name implements backend.Adapter.
func (a *Adapter) Name() string {
	return backend.NameWGPU
}

// RequiresRecreate implements backend.RecreateChecker. Pipelines are built
// against the back-buffer format and sample count, so changing either
// needs a new device.
func (a *Adapter) RequiresRecreate(old, next *backend.Options) bool {
	return old.Format(gputypes.TextureFormatBGRA8Unorm) != next.Format(gputypes.TextureFormatBGRA8Unorm) ||
		old.Samples() != next.Samples()
}

// Subsystems implements backend.Adapter.
func (a *Adapter) Subsystems() backend.Subsystems {
	return backend.Subsystems{
		Device:   deviceSubsystem{a},
		Shaders:  shaderSubsystem{a},
		Textures: textureSubsystem{a},
		Buffers:  bufferSubsystem{a},
		Params:   paramSubsystem{a},
		Draw:     drawSubsystem{a},
	}
}

// QueryCaps implements backend.Adapter.
func (a *Adapter) QueryCaps() (backend.Caps, error) {
	if a.device == nil {
		return backend.Caps{}, backend.ErrDeviceNotReady
	}
	return capsFromLimits(a.info, gputypes.DefaultLimits()), nil
}

func capsFromLimits(name string, l gputypes.Limits) backend.Caps {
	return backend.Caps{
		AdapterName:      name,
		MaxColorTargets:  int(l.MaxColorAttachments),
		MaxVertexStreams: int(l.MaxVertexBuffers),
		MaxTextureSlots:  int(l.MaxSampledTexturesPerShaderStage),
		MaxConstantSlots: int(l.MaxUniformBuffersPerShaderStage),
		MaxTextureSize:   int(l.MaxTextureDimension2D),
		MaxSampleCount:   4,
	}.Clamp()
}

// BackBuffer implements backend.Adapter.
func (a *Adapter) BackBuffer() backend.Surface {
	return a.surface
}

// open acquires a device, either from the provider or by probing the
// configured hal backends in order.
func (a *Adapter) open() error {
	if a.provider != nil {
		return a.adopt(a.provider)
	}
	var errs []error
	for _, b := range a.backends {
		err := a.openBackend(b)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		slogger().Debug("wgpu: backend unavailable", "backend", b, "error", err)
	}
	return fmt.Errorf("%w: %w", ErrNoGPU, errors.Join(errs...))
}

func (a *Adapter) openBackend(b gputypes.Backend) error {
	hb, ok := hal.GetBackend(b)
	if !ok {
		return fmt.Errorf("backend %v not compiled in", b)
	}
	instance, err := hb.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoGPU
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	od, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device: %w", err)
	}
	a.instance = instance
	a.device = od.Device
	a.queue = od.Queue
	a.external = false
	a.info = selected.Info.Name
	slogger().Info("wgpu: device opened", "backend", b, "adapter", a.info)
	return nil
}

func (a *Adapter) adopt(p gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := p.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	a.device = device
	a.queue = queue
	a.external = true
	a.info = "shared"
	slogger().Info("wgpu: using shared device")
	return nil
}

func (a *Adapter) close() {
	if a.device != nil && !a.external {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
	}
	a.device = nil
	a.queue = nil
	a.instance = nil
	a.external = false
}

func (a *Adapter) applyMode(opts *backend.Options) {
	a.opts = *opts
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	a.surface = backend.Surface{
		Width:       w,
		Height:      h,
		Format:      opts.Format(gputypes.TextureFormatBGRA8Unorm),
		SampleCount: opts.Samples(),
	}
}

func (a *Adapter) ready() error {
	if a.device == nil || a.back == nil {
		return backend.ErrDeviceNotReady
	}
	return nil
}

// samples returns the back-buffer sample count as a hal value.
func (a *Adapter) samples() uint32 {
	return uint32(max(a.surface.SampleCount, 1)) //nolint:gosec // G115: validated 1..8
}

// bound is the last state passed to the primitives.
type bound struct {
	targets  backend.TargetSet
	viewport backend.PixelViewport
	raster   state.Raster
	ds       state.DepthStencil
	blend    state.Blend
	program  *program
	streams  [state.MaxVertexStreams]state.VertexStream
	index    state.Index
	textures [state.MaxTextureSlots]textureBinding
	consts   [state.MaxConstantSlots]state.ConstantBinding
}

type textureBinding struct {
	tex     *texture
	sampler *sampler
}
