// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import "fmt"

// DeviceState is the lifecycle position of the renderer's device.
type DeviceState uint8

const (
	// StateUninitialized is the state before Init and after a failed Init.
	StateUninitialized DeviceState = iota

	// StateCreated means every step was created but not yet restored.
	StateCreated

	// StateRestored means the device is usable for rendering.
	StateRestored

	// StateDisposed means the device was reset or lost. Restore or
	// TryRestore brings it back.
	StateDisposed

	// StateDestroyed means every native object was released. ChangeOptions
	// and TryRestore re-create the device.
	StateDestroyed
)

// String returns the lower-case state name.
func (s DeviceState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateRestored:
		return "restored"
	case StateDisposed:
		return "disposed"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("DeviceState(%d)", s)
}
