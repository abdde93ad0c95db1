// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"
)

// Phase is the last lifecycle phase the registry replayed.
type Phase uint8

const (
	// PhaseNone means no device phase was replayed yet, or the device was
	// destroyed.
	PhaseNone Phase = iota

	// PhaseCreated follows a successful Create.
	PhaseCreated

	// PhaseRestored follows a successful Restore.
	PhaseRestored

	// PhaseDisposed follows Dispose.
	PhaseDisposed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseRestored:
		return "restored"
	case PhaseDisposed:
		return "disposed"
	}
	return "none"
}

// Handle is a weak reference to a registered resource. It stays valid until
// the resource is unregistered; a stale handle never resolves to a resource
// registered later in the same slot.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle, which never resolves.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	res Resource
	gen uint32

	// created is set once DeviceCreate ran for the current device.
	created bool
}

// Registry is an insertion-ordered set of live resources.
//
// The registry does not own its resources: it only replays lifecycle
// phases onto them. Create and Restore run in registration order, Dispose
// and Destroy in reverse registration order.
//
// Registry is not safe for concurrent use; it belongs to the rendering
// thread of one device.
type Registry struct {
	slots []slot
	free  []uint32
	order []uint32

	device Device
	phase  Phase
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetDevice attaches the native factory used by resources created against
// this registry. It is replaced when the backend changes.
func (r *Registry) SetDevice(d Device) {
	r.device = d
}

// Device returns the attached native factory, or nil.
func (r *Registry) Device() Device {
	return r.device
}

// Phase returns the last replayed phase.
func (r *Registry) Phase() Phase {
	return r.phase
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return len(r.order)
}

// Register appends res to the registry without replaying any phase. On a
// live device the resource is created by the next Restore, before it is
// restored. Registering the same resource twice is a programming error and
// returns the zero handle.
func (r *Registry) Register(res Resource) Handle {
	if res == nil || r.indexOf(res) >= 0 {
		return Handle{}
	}
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots)) //nolint:gosec // G115: resource counts are bounded
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.res = res
	s.created = false
	r.order = append(r.order, idx)
	return Handle{index: idx, gen: s.gen}
}

// Attach registers res and brings it to the registry's current phase:
// created after Create, created and restored after Restore. If a hook
// fails the resource is destroyed and unregistered again.
func (r *Registry) Attach(res Resource) (Handle, error) {
	if res == nil {
		return Handle{}, fmt.Errorf("%w: nil resource", ErrInvalidDescriptor)
	}
	if r.indexOf(res) >= 0 {
		return Handle{}, ErrAlreadyRegistered
	}
	h := r.Register(res)
	if err := r.catchUp(&r.slots[h.index]); err != nil {
		res.DeviceDestroy()
		r.Unregister(res)
		return Handle{}, err
	}
	return h, nil
}

func (r *Registry) catchUp(s *slot) error {
	switch r.phase {
	case PhaseCreated, PhaseDisposed:
		return s.create()
	case PhaseRestored:
		if err := s.create(); err != nil {
			return err
		}
		return s.res.DeviceRestore()
	}
	return nil
}

func (s *slot) create() error {
	if err := s.res.DeviceCreate(); err != nil {
		return err
	}
	s.created = true
	return nil
}

// Unregister removes res by identity. It reports whether res was found.
// Handles to res become stale.
func (r *Registry) Unregister(res Resource) bool {
	pos := r.indexOf(res)
	if pos < 0 {
		return false
	}
	idx := r.order[pos]
	r.order = append(r.order[:pos], r.order[pos+1:]...)
	r.slots[idx].res = nil
	r.slots[idx].created = false
	r.slots[idx].gen++
	r.free = append(r.free, idx)
	return true
}

// Lookup resolves a handle. It returns false for stale or zero handles.
func (r *Registry) Lookup(h Handle) (Resource, bool) {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[h.index]
	if s.gen != h.gen || s.res == nil {
		return nil, false
	}
	return s.res, true
}

// Contains reports whether res is registered.
func (r *Registry) Contains(res Resource) bool {
	return r.indexOf(res) >= 0
}

// Each calls fn for every resource in registration order. Iteration stops
// when fn returns false. fn must not register or unregister resources.
func (r *Registry) Each(fn func(Resource) bool) {
	for _, idx := range r.order {
		if !fn(r.slots[idx].res) {
			return
		}
	}
}

// Create calls DeviceCreate on every resource in registration order. The
// first failure stops the iteration and is returned; the caller is expected
// to follow with Destroy.
func (r *Registry) Create() error {
	for pos, idx := range r.order {
		if err := r.slots[idx].create(); err != nil {
			return fmt.Errorf("resource %d of %d: %w", pos+1, len(r.order), err)
		}
	}
	r.phase = PhaseCreated
	return nil
}

// Restore calls DeviceRestore on every resource in registration order.
// Resources registered since the last Create are created first. The first
// failure stops the iteration and is returned.
func (r *Registry) Restore() error {
	for pos, idx := range r.order {
		s := &r.slots[idx]
		if !s.created {
			if err := s.create(); err != nil {
				return fmt.Errorf("resource %d of %d: %w", pos+1, len(r.order), err)
			}
		}
		if err := s.res.DeviceRestore(); err != nil {
			return fmt.Errorf("resource %d of %d: %w", pos+1, len(r.order), err)
		}
	}
	r.phase = PhaseRestored
	return nil
}

// Dispose calls DeviceDispose on every resource in reverse registration
// order.
func (r *Registry) Dispose() {
	for i := len(r.order) - 1; i >= 0; i-- {
		r.slots[r.order[i]].res.DeviceDispose()
	}
	if r.phase != PhaseNone {
		r.phase = PhaseDisposed
	}
}

// Destroy calls DeviceDestroy on every resource in reverse registration
// order.
func (r *Registry) Destroy() {
	for i := len(r.order) - 1; i >= 0; i-- {
		s := &r.slots[r.order[i]]
		s.res.DeviceDestroy()
		s.created = false
	}
	r.phase = PhaseNone
}

func (r *Registry) indexOf(res Resource) int {
	for pos, idx := range r.order {
		if r.slots[idx].res == res {
			return pos
		}
	}
	return -1
}
