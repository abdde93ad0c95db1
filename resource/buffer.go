// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import "fmt"

// BufferKind is the binding point of a buffer.
type BufferKind uint8

const (
	// BufferVertex holds vertex stream data.
	BufferVertex BufferKind = iota

	// BufferIndex holds 16 or 32 bit indices.
	BufferIndex

	// BufferConstant holds uniform data.
	BufferConstant
)

// String returns the kind name.
func (k BufferKind) String() string {
	switch k {
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	case BufferConstant:
		return "constant"
	}
	return fmt.Sprintf("BufferKind(%d)", k)
}

// BufferDescriptor describes parameters for creating a buffer.
type BufferDescriptor struct {
	Label string
	Kind  BufferKind

	// Size is the buffer size in bytes.
	Size int

	// Dynamic buffers are rewritten often and live in the default pool.
	Dynamic bool

	// Index32 selects 32 bit indices for index buffers; 16 bit otherwise.
	Index32 bool
}

// Pool returns the memory pool of the buffer.
func (d *BufferDescriptor) Pool() Pool {
	if d.Dynamic {
		return PoolDefault
	}
	return PoolManaged
}

// Buffer is a GPU buffer with a CPU shadow copy.
type Buffer struct {
	Lifecycle

	reg    *Registry
	desc   BufferDescriptor
	native Native
	shadow []byte
}

// NewBuffer validates desc and returns an uncreated buffer bound to reg.
func NewBuffer(reg *Registry, desc BufferDescriptor) (*Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q size %d", ErrInvalidDescriptor, desc.Label, desc.Size)
	}
	if desc.Kind > BufferConstant {
		return nil, fmt.Errorf("%w: buffer %q kind %s", ErrInvalidDescriptor, desc.Label, desc.Kind)
	}
	return &Buffer{reg: reg, desc: desc, shadow: make([]byte, desc.Size)}, nil
}

// Descriptor returns the buffer descriptor.
func (b *Buffer) Descriptor() BufferDescriptor {
	return b.desc
}

// Kind returns the buffer kind.
func (b *Buffer) Kind() BufferKind {
	return b.desc.Kind
}

// IndexStride returns the size of one index in bytes.
func (b *Buffer) IndexStride() int {
	if b.desc.Index32 {
		return 4
	}
	return 2
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int {
	return b.desc.Size
}

// Pool returns the memory pool of the buffer.
func (b *Buffer) Pool() Pool {
	return b.desc.Pool()
}

// Native returns the backend buffer, or nil.
func (b *Buffer) Native() Native {
	return b.native
}

// Bytes returns the shadow copy. The slice must not be modified.
func (b *Buffer) Bytes() []byte {
	return b.shadow
}

// Write copies data at offset into the shadow copy and, when the native
// buffer exists, into the native buffer.
func (b *Buffer) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.desc.Size {
		return fmt.Errorf("%w: buffer %q write [%d,%d) out of %d bytes",
			ErrInvalidDescriptor, b.desc.Label, offset, offset+len(data), b.desc.Size)
	}
	copy(b.shadow[offset:], data)
	if b.native == nil {
		return nil
	}
	dev := b.reg.Device()
	if dev == nil {
		return ErrNoDevice
	}
	return dev.WriteBuffer(b.native, offset, data)
}

// DeviceCreate allocates static buffers.
func (b *Buffer) DeviceCreate() error {
	return b.Create(func() error {
		if b.Pool() == PoolManaged {
			return b.alloc()
		}
		return nil
	})
}

// DeviceRestore allocates dynamic buffers.
func (b *Buffer) DeviceRestore() error {
	return b.Restore(func() error {
		if b.Pool() == PoolDefault {
			return b.alloc()
		}
		return nil
	})
}

// DeviceDispose releases dynamic buffers.
func (b *Buffer) DeviceDispose() {
	b.Dispose(func() {
		if b.Pool() == PoolDefault {
			b.native = destroyNative(b.native)
		}
	})
}

// DeviceDestroy releases the native buffer.
func (b *Buffer) DeviceDestroy() {
	b.Destroy(func() {
		b.native = destroyNative(b.native)
	})
}

func (b *Buffer) alloc() error {
	if b.native != nil {
		return nil
	}
	dev := b.reg.Device()
	if dev == nil {
		return ErrNoDevice
	}
	n, err := dev.NewBuffer(&b.desc)
	if err != nil {
		return fmt.Errorf("buffer %q: %w", b.desc.Label, err)
	}
	if err := dev.WriteBuffer(n, 0, b.shadow); err != nil {
		n.Destroy()
		return fmt.Errorf("buffer %q upload: %w", b.desc.Label, err)
	}
	b.native = n
	return nil
}
