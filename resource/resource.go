// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common resource errors.
var (
	// ErrInvalidTransition is returned when a lifecycle hook is invoked from
	// a state that does not allow it.
	ErrInvalidTransition = errors.New("resource: invalid lifecycle transition")

	// ErrNotReady is returned when a resource has no native object to use.
	ErrNotReady = errors.New("resource: native object not ready")

	// ErrNoDevice is returned when a hook runs before a device is attached.
	ErrNoDevice = errors.New("resource: no device attached")

	// ErrAlreadyRegistered is returned when a resource is registered twice.
	ErrAlreadyRegistered = errors.New("resource: already registered")

	// ErrInvalidDescriptor is returned for descriptors that cannot describe
	// a valid native object.
	ErrInvalidDescriptor = errors.New("resource: invalid descriptor")
)

// Resource is implemented by every device-dependent GPU object.
//
// DeviceCreate and DeviceRestore return nil on success. DeviceDispose and
// DeviceDestroy cannot fail and must tolerate being called on a resource
// that never reached the matching state.
type Resource interface {
	DeviceCreate() error
	DeviceRestore() error
	DeviceDispose()
	DeviceDestroy()
}

// Stateful is implemented by resources that expose their lifecycle state.
type Stateful interface {
	State() State
}

// Native is a backend-owned object behind a resource.
type Native interface {
	Destroy()
}

// Pool selects when a resource owns its native object.
type Pool uint8

const (
	// PoolManaged objects live from DeviceCreate to DeviceDestroy and
	// survive a device reset.
	PoolManaged Pool = iota

	// PoolDefault objects live from DeviceRestore to DeviceDispose and are
	// re-created after every reset.
	PoolDefault
)

// String returns the pool name.
func (p Pool) String() string {
	if p == PoolDefault {
		return "default"
	}
	return "managed"
}

// Device creates native objects for resources. Backend adapters implement it.
type Device interface {
	NewTexture(desc *TextureDescriptor) (Native, error)
	WriteTexture(tex Native, level, slice int, data []byte) error
	NewTargetView(tex Native, desc *TargetViewDescriptor) (Native, error)
	NewBuffer(desc *BufferDescriptor) (Native, error)
	WriteBuffer(buf Native, offset int, data []byte) error
	NewProgram(desc *ProgramDescriptor) (Native, error)
}

// IsDepthFormat reports whether format carries depth or stencil data.
func IsDepthFormat(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float:
		return true
	}
	return false
}

// BytesPerPixel returns the texel size of the color formats used for
// shadow copies. Unknown formats report 4.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	}
	return 4
}

// destroyNative releases n if it is set and returns nil for assignment.
func destroyNative(n Native) Native {
	if n != nil {
		n.Destroy()
	}
	return nil
}
