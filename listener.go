// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

// Listener receives device lifecycle notifications. Create and restore
// notifications follow the transition; dispose and destroy notifications
// precede it, while the device is still intact.
//
// Notifications come in pairs: every dispose follows a restore and every
// destroy follows a create. A restore that fails is never announced, so
// it is followed by a destroy without a dispose.
//
// Handlers run on the rendering thread and may call back into the
// renderer. Transitions requested from a handler (ChangeOptions, Create,
// Restore, Dispose, Destroy, DeviceLost, TryRestore, Close) are ignored.
type Listener interface {
	OnDeviceCreate(r *Renderer)
	OnDeviceRestore(r *Renderer)
	OnDeviceDispose(r *Renderer)
	OnDeviceDestroy(r *Renderer)
}

// ListenerFuncs adapts functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Create  func(r *Renderer)
	Restore func(r *Renderer)
	Dispose func(r *Renderer)
	Destroy func(r *Renderer)
}

// OnDeviceCreate implements Listener.
func (f ListenerFuncs) OnDeviceCreate(r *Renderer) {
	if f.Create != nil {
		f.Create(r)
	}
}

// OnDeviceRestore implements Listener.
func (f ListenerFuncs) OnDeviceRestore(r *Renderer) {
	if f.Restore != nil {
		f.Restore(r)
	}
}

// OnDeviceDispose implements Listener.
func (f ListenerFuncs) OnDeviceDispose(r *Renderer) {
	if f.Dispose != nil {
		f.Dispose(r)
	}
}

// OnDeviceDestroy implements Listener.
func (f ListenerFuncs) OnDeviceDestroy(r *Renderer) {
	if f.Destroy != nil {
		f.Destroy(r)
	}
}

type subscription struct {
	l Listener
}

// Subscribe adds l and returns a function that removes it again. The same
// listener may be subscribed more than once.
func (r *Renderer) Subscribe(l Listener) (unsubscribe func()) {
	s := &subscription{l: l}
	r.listeners = append(r.listeners, s)
	return func() {
		for i, x := range r.listeners {
			if x == s {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify calls fn for a snapshot of the listeners, so handlers may
// subscribe and unsubscribe.
func (r *Renderer) notify(fn func(Listener)) {
	subs := append([]*subscription(nil), r.listeners...)
	for _, s := range subs {
		fn(s.l)
	}
}
