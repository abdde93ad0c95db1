// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import "fmt"

// State is the lifecycle position of a resource.
type State uint8

const (
	// StateUncreated is the initial state: no device hook has run yet.
	StateUncreated State = iota

	// StateCreated means DeviceCreate succeeded.
	StateCreated

	// StateRestored means the resource is fully usable.
	StateRestored

	// StateDisposed means reset-volatile data was released.
	StateDisposed

	// StateDestroyed means every native object was released. The resource
	// may be created again or dropped.
	StateDestroyed
)

var stateNames = [...]string{
	StateUncreated: "uncreated",
	StateCreated:   "created",
	StateRestored:  "restored",
	StateDisposed:  "disposed",
	StateDestroyed: "destroyed",
}

// String returns the lower-case state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Lifecycle tracks the state of one resource and enforces the transition
// rules. Embed it and route the Device* hooks through its methods.
//
// The zero value is an uncreated resource.
type Lifecycle struct {
	state State
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	return l.state
}

// Create runs fn and moves to StateCreated. Allowed from StateUncreated and
// StateDestroyed. If fn fails the state is unchanged.
func (l *Lifecycle) Create(fn func() error) error {
	if l.state != StateUncreated && l.state != StateDestroyed {
		return fmt.Errorf("%w: create from %s", ErrInvalidTransition, l.state)
	}
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	l.state = StateCreated
	return nil
}

// Restore runs fn and moves to StateRestored. Allowed from StateCreated and
// StateDisposed; a restored resource ignores the call.
func (l *Lifecycle) Restore(fn func() error) error {
	switch l.state {
	case StateRestored:
		return nil
	case StateCreated, StateDisposed:
	default:
		return fmt.Errorf("%w: restore from %s", ErrInvalidTransition, l.state)
	}
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	l.state = StateRestored
	return nil
}

// Dispose runs fn and moves to StateDisposed when the resource is restored.
// In any other state it does nothing.
func (l *Lifecycle) Dispose(fn func()) {
	if l.state != StateRestored {
		return
	}
	if fn != nil {
		fn()
	}
	l.state = StateDisposed
}

// Destroy runs fn and moves to StateDestroyed when the resource holds a
// device object (created, restored or disposed). In any other state it does
// nothing.
func (l *Lifecycle) Destroy(fn func()) {
	switch l.state {
	case StateCreated, StateRestored, StateDisposed:
	default:
		return
	}
	if fn != nil {
		fn()
	}
	l.state = StateDestroyed
}

// Live reports whether the resource is restored and usable for rendering.
func (l *Lifecycle) Live() bool {
	return l.state == StateRestored
}
