// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// program is a compiled shader module with the group 0 layout derived
// from its slot counts. Constants take bindings [0, C), textures
// [C, C+T) and samplers [C+T, C+2T).
type program struct {
	native
	id         uint64
	desc       resource.ProgramDescriptor
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
}

func (p *program) Destroy() {
	if p.module == nil {
		return
	}
	if p.a.pipelines != nil {
		p.a.pipelines.RemoveFunc(func(k pipelineKey) bool { return k.program == p.id })
	}
	if p.current() {
		d := p.a.device
		d.DestroyPipelineLayout(p.pipeLayout)
		d.DestroyBindGroupLayout(p.bindLayout)
		d.DestroyShaderModule(p.module)
	}
	p.module, p.bindLayout, p.pipeLayout = nil, nil, nil
}

func (p *program) textureBinding(slot int) uint32 {
	return uint32(p.desc.ConstantSlots + slot) //nolint:gosec // G115: bounded slot counts
}

func (p *program) samplerBinding(slot int) uint32 {
	return uint32(p.desc.ConstantSlots + p.desc.TextureSlots + slot) //nolint:gosec // G115: bounded slot counts
}

// compileWGSL compiles WGSL to SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// bindGroupLayoutEntries returns the group 0 layout of a program.
func bindGroupLayoutEntries(constants, textures int) []gputypes.BindGroupLayoutEntry {
	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	entries := make([]gputypes.BindGroupLayoutEntry, 0, constants+2*textures)
	for i := 0; i < constants; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i), //nolint:gosec // G115: bounded slot counts
			Visibility: visibility,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for i := 0; i < textures; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(constants + i), //nolint:gosec // G115: bounded slot counts
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	for i := 0; i < textures; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(constants + textures + i), //nolint:gosec // G115: bounded slot counts
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	return entries
}

// NewProgram implements resource.Device.
func (a *Adapter) NewProgram(desc *resource.ProgramDescriptor) (resource.Native, error) {
	if err := a.requireDevice(); err != nil {
		return nil, err
	}
	code, err := a.shaders.GetOrCreate(hashSource(desc.Source), func() ([]uint32, error) {
		return compileWGSL(desc.Source)
	})
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", desc.Label, err)
	}

	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %q: %w", desc.Label, err)
	}
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_layout",
		Entries: bindGroupLayoutEntries(desc.ConstantSlots, desc.TextureSlots),
	})
	if err != nil {
		a.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("create bind group layout %q: %w", desc.Label, err)
	}
	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		a.device.DestroyBindGroupLayout(bindLayout)
		a.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("create pipeline layout %q: %w", desc.Label, err)
	}

	a.programID++
	return &program{
		native:     a.native(),
		id:         a.programID,
		desc:       *desc,
		module:     module,
		bindLayout: bindLayout,
		pipeLayout: pipeLayout,
	}, nil
}
