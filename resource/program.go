// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Default shader entry points.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// ProgramDescriptor describes a GPU program: a vertex and a fragment stage
// compiled from one WGSL module.
type ProgramDescriptor struct {
	Label string

	// Source is the WGSL module source.
	Source string

	// VertexEntry and FragmentEntry name the stage entry points.
	// Empty values select DefaultVertexEntry and DefaultFragmentEntry.
	VertexEntry   string
	FragmentEntry string

	// VertexLayouts describes the vertex streams the program reads, indexed
	// by stream slot.
	VertexLayouts []gputypes.VertexBufferLayout

	// ConstantSlots and TextureSlots are the number of uniform buffers and
	// texture/sampler pairs the program binds in group 0.
	ConstantSlots int
	TextureSlots  int
}

// Program is a compiled GPU program. Programs are managed: they survive a
// device reset and are recompiled after a full recreate.
type Program struct {
	Lifecycle

	reg    *Registry
	desc   ProgramDescriptor
	native Native
}

// NewProgram validates desc and returns an uncreated program bound to reg.
func NewProgram(reg *Registry, desc ProgramDescriptor) (*Program, error) {
	if strings.TrimSpace(desc.Source) == "" {
		return nil, fmt.Errorf("%w: program %q has no source", ErrInvalidDescriptor, desc.Label)
	}
	if desc.ConstantSlots < 0 || desc.TextureSlots < 0 {
		return nil, fmt.Errorf("%w: program %q has negative slot counts", ErrInvalidDescriptor, desc.Label)
	}
	if desc.VertexEntry == "" {
		desc.VertexEntry = DefaultVertexEntry
	}
	if desc.FragmentEntry == "" {
		desc.FragmentEntry = DefaultFragmentEntry
	}
	return &Program{reg: reg, desc: desc}, nil
}

// Descriptor returns the program descriptor.
func (p *Program) Descriptor() ProgramDescriptor {
	return p.desc
}

// Native returns the backend program, or nil.
func (p *Program) Native() Native {
	return p.native
}

// Pool returns PoolManaged.
func (p *Program) Pool() Pool {
	return PoolManaged
}

// DeviceCreate compiles the program.
func (p *Program) DeviceCreate() error {
	return p.Create(func() error {
		dev := p.reg.Device()
		if dev == nil {
			return ErrNoDevice
		}
		n, err := dev.NewProgram(&p.desc)
		if err != nil {
			return fmt.Errorf("program %q: %w", p.desc.Label, err)
		}
		p.native = n
		return nil
	})
}

// DeviceRestore marks the program usable.
func (p *Program) DeviceRestore() error {
	return p.Restore(nil)
}

// DeviceDispose keeps the compiled program.
func (p *Program) DeviceDispose() {
	p.Dispose(nil)
}

// DeviceDestroy releases the compiled program.
func (p *Program) DeviceDestroy() {
	p.Destroy(func() {
		p.native = destroyNative(p.native)
	})
}
