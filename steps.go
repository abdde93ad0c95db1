// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import "github.com/gogpu/gfx/backend"

// step is one entry of the device lifecycle order. Nil hooks are skipped.
type step struct {
	name    string
	create  func() error
	restore func() error
	dispose func()
	destroy func()
}

func (s *step) runCreate() error {
	if s.create == nil {
		return nil
	}
	return s.create()
}

func (s *step) runRestore() error {
	if s.restore == nil {
		return nil
	}
	return s.restore()
}

func (s *step) runDispose() {
	if s.dispose != nil {
		s.dispose()
	}
}

func (s *step) runDestroy() {
	if s.destroy != nil {
		s.destroy()
	}
}

// steps returns the lifecycle order: display, caps, shaders, states,
// textures, buffers, resources, params, draw. Create and Restore walk it
// forward, Dispose and Destroy in reverse.
func (r *Renderer) steps() []step {
	subs := r.adapter.Subsystems()
	return []step{
		r.displayStep(subs.Device),
		{name: "caps", create: r.queryCaps},
		r.subsystemStep("shaders", subs.Shaders),
		{
			name: "states",
			create: func() error {
				r.states.SetFactory(r.adapter)
				return nil
			},
			destroy: r.states.DestroyAll,
		},
		r.subsystemStep("textures", subs.Textures),
		r.subsystemStep("buffers", subs.Buffers),
		{
			name: "resources",
			create: func() error {
				r.reg.SetDevice(r.adapter)
				return r.reg.Create()
			},
			restore: r.reg.Restore,
			dispose: r.reg.Dispose,
			destroy: r.reg.Destroy,
		},
		r.subsystemStep("params", subs.Params),
		r.subsystemStep("draw", subs.Draw),
	}
}

func (r *Renderer) subsystemStep(name string, s backend.Subsystem) step {
	if s == nil {
		return step{name: name}
	}
	return step{
		name:    name,
		create:  func() error { return s.DeviceCreate(&r.opts) },
		restore: func() error { return s.DeviceRestore(&r.opts) },
		dispose: s.DeviceDispose,
		destroy: s.DeviceDestroy,
	}
}

// displayStep acquires the display before the native device is opened and
// releases it after the device is destroyed.
func (r *Renderer) displayStep(dev backend.Subsystem) step {
	return step{
		name: "display",
		create: func() error {
			if err := r.display.Acquire(&r.opts); err != nil {
				return err
			}
			r.applied = r.opts
			if dev == nil {
				return nil
			}
			return dev.DeviceCreate(&r.opts)
		},
		restore: func() error {
			if modeChanged(&r.applied, &r.opts) {
				if err := r.display.ApplyMode(&r.opts); err != nil {
					return err
				}
				r.applied = r.opts
			} else {
				r.opts.Width, r.opts.Height = r.applied.Width, r.applied.Height
			}
			if dev == nil {
				return nil
			}
			return dev.DeviceRestore(&r.opts)
		},
		dispose: func() {
			if dev != nil {
				dev.DeviceDispose()
			}
		},
		destroy: func() {
			if dev != nil {
				dev.DeviceDestroy()
			}
			r.display.Release()
		},
	}
}

// modeChanged reports whether the display mode differs. Zero sizes are
// left to the display and compare equal to whatever it resolved.
func modeChanged(applied, next *Options) bool {
	return (next.Width != 0 && next.Width != applied.Width) ||
		(next.Height != 0 && next.Height != applied.Height) ||
		next.Fullscreen != applied.Fullscreen ||
		next.Monitor != applied.Monitor ||
		next.RefreshRate != applied.RefreshRate
}

func (r *Renderer) queryCaps() error {
	caps, err := r.adapter.QueryCaps()
	if err != nil {
		return err
	}
	r.caps = caps.Clamp()
	r.binder.Reset(r.adapter, r.caps)
	slogger().Debug("gfx: caps", "caps", r.caps.String())
	return nil
}
