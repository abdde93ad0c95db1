// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.NameSoftware, func() backend.Adapter { return New() })
}

// Default size of the back buffer when the options leave it open.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// DefaultCaps are the limits reported unless WithCaps overrides them.
var DefaultCaps = backend.Caps{
	AdapterName:      "software",
	MaxColorTargets:  state.MaxColorTargets,
	MaxVertexStreams: state.MaxVertexStreams,
	MaxTextureSlots:  state.MaxTextureSlots,
	MaxConstantSlots: state.MaxConstantSlots,
	MaxTextureSize:   8192,
	MaxSampleCount:   8,
}

// TextureSlot is the recorded state of one texture slot.
type TextureSlot struct {
	Texture *resource.Texture
	Sampler state.SamplerState
}

// Bound is the state the adapter was last told to bind. It is comparable.
type Bound struct {
	Targets      backend.TargetSet
	Viewport     backend.PixelViewport
	Raster       state.Raster
	DepthStencil state.DepthStencil
	Blend        state.Blend
	Program      *resource.Program
	Vertex       [state.MaxVertexStreams]state.VertexStream
	Index        state.Index
	Textures     [state.MaxTextureSlots]TextureSlot
	Constants    [state.MaxConstantSlots]state.ConstantBinding
}

// Stats counts the work the adapter was asked to do.
type Stats struct {
	Calls     int
	Draws     int
	Clears    int
	Presents  int
	Primitive map[string]int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithCaps overrides the reported caps.
func WithCaps(c backend.Caps) Option {
	return func(a *Adapter) { a.caps = c }
}

// WithReference enables strict validation regardless of the options.
func WithReference() Option {
	return func(a *Adapter) { a.forceReference = true }
}

// Adapter is the recording backend.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	caps           backend.Caps
	forceReference bool
	reference      bool

	opts     backend.Options
	open     bool
	restored bool
	surface  backend.Surface

	bound Bound
	stats Stats
	calls []string

	// lifecycle is the ordered log of subsystem hooks, e.g. "create:device".
	lifecycle []string
	failures  map[string]error

	live        int
	created     int
	doubleFrees int
}

var _ backend.Adapter = (*Adapter)(nil)

// New creates a software adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		caps:     DefaultCaps,
		failures: make(map[string]error),
	}
	for _, o := range opts {
		o(a)
	}
	a.resetStats()
	return a
}

// Name implements backend.Adapter.
func (a *Adapter) Name() string {
	return backend.NameSoftware
}

// QueryCaps implements backend.Adapter.
func (a *Adapter) QueryCaps() (backend.Caps, error) {
	if err := a.fail("caps"); err != nil {
		return backend.Caps{}, err
	}
	if !a.open {
		return backend.Caps{}, backend.ErrDeviceNotReady
	}
	return a.caps, nil
}

// BackBuffer implements backend.Adapter.
func (a *Adapter) BackBuffer() backend.Surface {
	return a.surface
}

// Subsystems implements backend.Adapter.
func (a *Adapter) Subsystems() backend.Subsystems {
	return backend.Subsystems{
		Device:   &subsystem{a: a, name: "device"},
		Shaders:  &subsystem{a: a, name: "shaders"},
		Textures: &subsystem{a: a, name: "textures"},
		Buffers:  &subsystem{a: a, name: "buffers"},
		Params:   &subsystem{a: a, name: "params"},
		Draw:     &subsystem{a: a, name: "draw"},
	}
}

// FailOn makes the next call of key return err. Keys are lifecycle hooks
// ("create:textures", "restore:device"), primitives ("SetBlendState",
// "Draw"), object creation ("new texture") and "caps".
func (a *Adapter) FailOn(key string, err error) {
	a.failures[key] = err
}

func (a *Adapter) fail(key string) error {
	err, ok := a.failures[key]
	if !ok {
		return nil
	}
	delete(a.failures, key)
	return err
}

// Bound returns the recorded state.
func (a *Adapter) Bound() Bound {
	return a.bound
}

// Stats returns call counters.
func (a *Adapter) Stats() Stats {
	s := a.stats
	s.Primitive = make(map[string]int, len(a.stats.Primitive))
	for k, v := range a.stats.Primitive {
		s.Primitive[k] = v
	}
	return s
}

// Calls returns the ordered primitive log, e.g. "BindTexture 2".
func (a *Adapter) Calls() []string {
	return append([]string(nil), a.calls...)
}

// ResetCalls clears the call log and counters, keeping the bound state.
func (a *Adapter) ResetCalls() {
	a.calls = a.calls[:0]
	a.resetStats()
}

func (a *Adapter) resetStats() {
	a.stats = Stats{Primitive: make(map[string]int)}
}

// Lifecycle returns the ordered log of subsystem hooks.
func (a *Adapter) Lifecycle() []string {
	return append([]string(nil), a.lifecycle...)
}

// ResetLifecycle clears the lifecycle log.
func (a *Adapter) ResetLifecycle() {
	a.lifecycle = a.lifecycle[:0]
}

// Live returns the number of native objects not yet destroyed.
func (a *Adapter) Live() int {
	return a.live
}

// DoubleFrees returns how often a native object was destroyed twice.
func (a *Adapter) DoubleFrees() int {
	return a.doubleFrees
}

// IsOpen reports whether the device subsystem is created.
func (a *Adapter) IsOpen() bool {
	return a.open
}

// IsRestored reports whether the device subsystem is restored.
func (a *Adapter) IsRestored() bool {
	return a.restored
}

// Options returns the options of the last device create or restore.
func (a *Adapter) Options() backend.Options {
	return a.opts
}

// subsystem records its hooks in the adapter lifecycle log.
type subsystem struct {
	a    *Adapter
	name string
}

func (s *subsystem) DeviceCreate(opts *backend.Options) error {
	s.a.lifecycle = append(s.a.lifecycle, "create:"+s.name)
	if err := s.a.fail("create:" + s.name); err != nil {
		return err
	}
	if s.name == "device" {
		s.a.openDevice(opts)
	}
	return nil
}

func (s *subsystem) DeviceRestore(opts *backend.Options) error {
	s.a.lifecycle = append(s.a.lifecycle, "restore:"+s.name)
	if err := s.a.fail("restore:" + s.name); err != nil {
		return err
	}
	if s.name == "device" {
		if !s.a.open {
			return backend.ErrDeviceNotReady
		}
		s.a.applyMode(opts)
		s.a.restored = true
	}
	return nil
}

func (s *subsystem) DeviceDispose() {
	s.a.lifecycle = append(s.a.lifecycle, "dispose:"+s.name)
	if s.name == "device" {
		s.a.restored = false
		s.a.bound = Bound{}
	}
}

func (s *subsystem) DeviceDestroy() {
	s.a.lifecycle = append(s.a.lifecycle, "destroy:"+s.name)
	if s.name == "device" {
		s.a.open = false
		s.a.restored = false
		s.a.bound = Bound{}
		slogger().Debug("software: device destroyed", "live", s.a.live)
	}
}

func (a *Adapter) openDevice(opts *backend.Options) {
	a.open = true
	a.reference = a.forceReference || opts.Reference
	a.applyMode(opts)
	slogger().Debug("software: device created",
		"reference", a.reference,
		"width", a.surface.Width,
		"height", a.surface.Height)
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

// record counts a primitive call and returns an injected failure, if any.
func (a *Adapter) record(name string, slot int) error {
	entry := name
	if slot >= 0 {
		entry = fmt.Sprintf("%s %d", name, slot)
	}
	a.calls = append(a.calls, entry)
	a.stats.Calls++
	a.stats.Primitive[name]++
	if err := a.fail(name); err != nil {
		return err
	}
	if !a.restored {
		return fmt.Errorf("software: %s: %w", name, backend.ErrDeviceNotReady)
	}
	return nil
}
