// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/bind"
	"github.com/gogpu/gfx/display"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/statecache"
)

// Stats counts renderer activity.
type Stats struct {
	Creates, Restores, Disposes, Destroys int

	// Frames is the number of successful Present calls.
	Frames int

	Bind bind.Stats

	StateObjects           int
	StateHits, StateMisses uint64
}

// Renderer owns one device and drives it through its lifecycle:
//
//	Uninitialized -> Created -> Restored -> (Disposed <-> Restored)* -> Destroyed
//
// A Renderer is not safe for concurrent use; all calls come from the
// rendering thread.
type Renderer struct {
	adapter backend.Adapter
	fixed   bool
	display display.Display

	// requested holds the options as the application passed them; opts
	// the effective options after the display resolved size and handles.
	requested Options
	opts      Options
	// applied is the display mode last applied.
	applied Options

	state  DeviceState
	caps   backend.Caps
	reg    *resource.Registry
	states *statecache.Cache
	binder *bind.Binder

	listeners []*subscription
	changing  bool
	stats     Stats
}

// New creates an uninitialized renderer.
func New(opts ...RendererOption) *Renderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := o.display
	if d == nil {
		d = display.NewHeadless()
	}
	r := &Renderer{
		adapter: o.adapter,
		fixed:   o.adapter != nil,
		display: d,
		reg:     resource.NewRegistry(),
	}
	r.states = statecache.New(nil, o.stateCacheLimit)
	r.binder = bind.New(nil, backend.Caps{}, r.states, r.reg)
	for _, l := range o.listeners {
		r.Subscribe(l)
	}
	return r
}

// Init validates opts, selects the adapter and brings the device up. On
// failure everything is torn down and the renderer stays uninitialized.
func (r *Renderer) Init(opts Options) error {
	if r.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	if !r.enter("Init") {
		return nil
	}
	defer r.leave()

	if err := opts.Validate(); err != nil {
		return err
	}
	a, err := r.selectAdapter(&opts)
	if err != nil {
		return err
	}

	r.setAdapter(a)
	r.requested, r.opts = opts, opts
	if err := r.create(); err != nil {
		return err
	}
	if err := r.restore(); err != nil {
		r.state = StateUninitialized
		return err
	}
	slogger().Info("gfx: renderer initialized",
		"adapter", a.Name(),
		"caps", r.caps.String(),
		"width", r.opts.Width,
		"height", r.opts.Height)
	return nil
}

func (r *Renderer) selectAdapter(opts *Options) (backend.Adapter, error) {
	if r.fixed {
		return r.adapter, nil
	}
	return backend.Select(opts)
}

func (r *Renderer) setAdapter(a backend.Adapter) {
	r.adapter = a
	propagateLogger(a, Logger())
}

// adapterChanged reports whether next selects a different adapter.
func adapterChanged(old, next *Options) bool {
	return old.Software != next.Software ||
		old.Reference != next.Reference ||
		!strings.EqualFold(old.Backend, next.Backend)
}

// ChangeOptions applies new options with the cheapest transition that
// achieves them: nothing, a reset (Dispose, Restore) or a full recreate
// (Dispose, Destroy, Create, Restore). forceRecreate always recreates.
//
// Invalid options and unavailable backends are reported before the device
// is touched. A zero window or monitor handle keeps the current one.
// Calls made while a change is in progress, for instance from a listener,
// are logged and ignored.
func (r *Renderer) ChangeOptions(next Options, forceRecreate bool) error {
	if r.state == StateUninitialized {
		return ErrNotInitialized
	}
	if !r.enter("ChangeOptions") {
		return nil
	}
	defer r.leave()

	if err := next.Validate(); err != nil {
		return err
	}
	if next.WindowHandle == 0 {
		next.WindowHandle = r.opts.WindowHandle
	}
	if next.MonitorHandle == 0 {
		next.MonitorHandle = r.opts.MonitorHandle
	}

	old := r.requested
	old.WindowHandle, old.MonitorHandle = r.opts.WindowHandle, r.opts.MonitorHandle
	checker, _ := r.adapter.(backend.RecreateChecker)
	t := backend.Classify(&old, &next, checker)
	if forceRecreate || r.state == StateDestroyed {
		t = backend.TransitionRecreate
	}
	if t == backend.TransitionNone {
		r.requested = next
		return nil
	}

	adapter := r.adapter
	if t == backend.TransitionRecreate && !r.fixed && adapterChanged(&old, &next) {
		a, err := backend.Select(&next)
		if err != nil {
			return err
		}
		adapter = a
	}

	slogger().Info("gfx: applying options", "transition", t.String(), "from", r.state.String())
	if t == backend.TransitionReset {
		r.dispose()
		r.requested, r.opts = next, next
		return r.restore()
	}

	r.destroy()
	if adapter != r.adapter {
		slogger().Info("gfx: switching adapter", "from", r.adapter.Name(), "to", adapter.Name())
		r.setAdapter(adapter)
	}
	r.requested, r.opts = next, next
	if err := r.create(); err != nil {
		return err
	}
	return r.restore()
}

// enter marks a device transition in progress. It reports false, and logs,
// when one is already running; the caller must then return without
// touching the device. Every successful enter is paired with leave.
func (r *Renderer) enter(op string) bool {
	if r.changing {
		slogger().Warn("gfx: call ignored, a device change is in progress", "op", op)
		return false
	}
	r.changing = true
	return true
}

func (r *Renderer) leave() {
	r.changing = false
}

// Create creates every step in order. If a step fails, the steps entered
// so far, including the failing one, are destroyed in reverse order and
// the state is left unchanged. Like every transition it is ignored while
// another transition is in progress.
func (r *Renderer) Create() error {
	if !r.enter("Create") {
		return nil
	}
	defer r.leave()
	return r.create()
}

func (r *Renderer) create() error {
	switch r.state {
	case StateUninitialized, StateDestroyed:
	default:
		return fmt.Errorf("gfx: create from %s: %w", r.state, resource.ErrInvalidTransition)
	}
	if r.adapter == nil {
		return ErrNotInitialized
	}
	steps := r.steps()
	for i, s := range steps {
		slogger().Debug("gfx: create", "step", s.name)
		if err := s.runCreate(); err != nil {
			for j := i; j >= 0; j-- {
				steps[j].runDestroy()
			}
			slogger().Warn("gfx: create failed, device destroyed", "step", s.name, "error", err)
			return fmt.Errorf("gfx: create %s: %w", s.name, err)
		}
	}
	r.state = StateCreated
	r.stats.Creates++
	r.notify(func(l Listener) { l.OnDeviceCreate(r) })
	return nil
}

// Restore restores every step in order and invalidates the bound state, so
// the next BindContext rebinds everything. On failure the device is
// disposed and destroyed. Restore on a restored device does nothing.
//
// A failed restore sends no restore notification and so no dispose
// notification either; listeners see the destroy right after the create
// or dispose that preceded it.
func (r *Renderer) Restore() error {
	if !r.enter("Restore") {
		return nil
	}
	defer r.leave()
	return r.restore()
}

func (r *Renderer) restore() error {
	switch r.state {
	case StateRestored:
		return nil
	case StateCreated, StateDisposed:
	default:
		return fmt.Errorf("gfx: restore from %s: %w", r.state, resource.ErrInvalidTransition)
	}
	steps := r.steps()
	for _, s := range steps {
		slogger().Debug("gfx: restore", "step", s.name)
		if err := s.runRestore(); err != nil {
			for j := len(steps) - 1; j >= 0; j-- {
				steps[j].runDispose()
			}
			r.state = StateDisposed
			r.destroy()
			slogger().Warn("gfx: restore failed, device destroyed", "step", s.name, "error", err)
			return fmt.Errorf("gfx: restore %s: %w", s.name, err)
		}
	}
	r.state = StateRestored
	r.stats.Restores++
	r.binder.Invalidate()
	r.notify(func(l Listener) { l.OnDeviceRestore(r) })
	return nil
}

// Dispose releases reset-volatile state. Listeners are notified first.
// Dispose on a device that is not restored does nothing.
func (r *Renderer) Dispose() {
	if !r.enter("Dispose") {
		return
	}
	defer r.leave()
	r.dispose()
}

func (r *Renderer) dispose() {
	if r.state != StateRestored {
		return
	}
	r.notify(func(l Listener) { l.OnDeviceDispose(r) })
	r.binder.Invalidate()
	steps := r.steps()
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i].runDispose()
	}
	r.state = StateDisposed
	r.stats.Disposes++
}

// Destroy releases the device, disposing it first when restored.
// Listeners are notified before anything is released. Destroy on a device
// that was never created or is already destroyed does nothing.
func (r *Renderer) Destroy() {
	if !r.enter("Destroy") {
		return
	}
	defer r.leave()
	r.destroy()
}

func (r *Renderer) destroy() {
	switch r.state {
	case StateRestored:
		r.dispose()
	case StateCreated, StateDisposed:
	default:
		return
	}
	r.notify(func(l Listener) { l.OnDeviceDestroy(r) })
	steps := r.steps()
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i].runDestroy()
	}
	r.state = StateDestroyed
	r.stats.Destroys++
}

// Close destroys the device and releases the managed depth buffer. The
// renderer can be initialized again afterwards.
// Close called from a listener is ignored.
func (r *Renderer) Close() {
	if !r.enter("Close") {
		return
	}
	defer r.leave()
	r.binder.Release()
	r.destroy()
	r.state = StateUninitialized
}

// DeviceLost disposes a restored device after the backend reported a lost
// device. TryRestore brings it back.
func (r *Renderer) DeviceLost() {
	if r.state != StateRestored {
		return
	}
	if !r.enter("DeviceLost") {
		return
	}
	defer r.leave()
	slogger().Warn("gfx: device lost")
	r.dispose()
}

// TryRestore restores a disposed device, or re-creates a destroyed one.
// Call it periodically after DeviceLost until it succeeds.
func (r *Renderer) TryRestore() error {
	if !r.enter("TryRestore") {
		return nil
	}
	defer r.leave()

	switch r.state {
	case StateRestored:
		return nil
	case StateDisposed, StateCreated:
		return r.restore()
	case StateDestroyed:
		if err := r.create(); err != nil {
			return err
		}
		return r.restore()
	}
	return ErrNotInitialized
}

// State returns the device state.
func (r *Renderer) State() DeviceState {
	return r.state
}

// Options returns the effective options: the requested options with the
// size and handles resolved by the display.
func (r *Renderer) Options() Options {
	return r.opts
}

// Caps returns the caps of the current device.
func (r *Renderer) Caps() backend.Caps {
	return r.caps
}

// Adapter returns the current adapter, or nil before Init.
func (r *Renderer) Adapter() backend.Adapter {
	return r.adapter
}

// Registry returns the registry of device resources.
func (r *Renderer) Registry() *resource.Registry {
	return r.reg
}

// Display returns the display.
func (r *Renderer) Display() display.Display {
	return r.display
}

// Stats returns renderer statistics.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Bind = r.binder.Stats()
	s.StateObjects = r.states.Size()
	s.StateHits, s.StateMisses = r.states.Stats()
	return s
}
