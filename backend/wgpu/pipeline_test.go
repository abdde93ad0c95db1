// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"testing"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
)

func testPass() *passInfo {
	info := &passInfo{colorCount: 1, samples: 1, depthFormat: gputypes.TextureFormatDepth24PlusStencil8}
	info.colorFormats[0] = gputypes.TextureFormatBGRA8Unorm
	return info
}

func TestPipelineKeyIgnoresDynamicState(t *testing.T) {
	a := New()
	p := &program{id: 1}
	ctx := state.Default()
	a.bound.raster, a.bound.ds, a.bound.blend = ctx.Raster, ctx.DepthStencil, ctx.Blend

	k1 := a.pipelineKeyFor(p, testPass())
	a.bound.ds.Reference = 7
	a.bound.blend.Factor = [4]float32{1, 0, 0, 1}
	a.bound.viewport.Width = 100
	k2 := a.pipelineKeyFor(p, testPass())

	if k1 != k2 {
		t.Errorf("dynamic state changed the key:\n%+v\n%+v", k1, k2)
	}
	if hashPipelineKey(&k1) != hashPipelineKey(&k2) {
		t.Error("dynamic state changed the hash")
	}
}

func TestPipelineKeyDistinguishesState(t *testing.T) {
	a := New()
	p := &program{id: 1, desc: resource.ProgramDescriptor{
		VertexLayouts: []gputypes.VertexBufferLayout{{ArrayStride: 8}},
	}}
	ctx := state.Default()
	a.bound.raster, a.bound.ds, a.bound.blend = ctx.Raster, ctx.DepthStencil, ctx.Blend
	base := a.pipelineKeyFor(p, testPass())

	tests := []struct {
		name   string
		change func()
	}{
		{"cull", func() { a.bound.raster.Cull = gputypes.CullModeNone }},
		{"depth compare", func() { a.bound.ds.DepthCompare = gputypes.CompareFunctionAlways }},
		{"blend", func() { a.bound.blend.Targets[0].Enable = true }},
		{"stride", func() { a.bound.streams[0].Stride = 16 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := a.bound
			defer func() { a.bound = saved }()
			tt.change()
			k := a.pipelineKeyFor(p, testPass())
			if k == base {
				t.Error("key did not change")
			}
			if hashPipelineKey(&k) == hashPipelineKey(&base) {
				t.Error("hash did not change")
			}
		})
	}

	other := &program{id: 2, desc: p.desc}
	if k := a.pipelineKeyFor(other, testPass()); k == base {
		t.Error("programs share a key")
	}
}

func TestPipelineKeyWithoutDepth(t *testing.T) {
	a := New()
	p := &program{id: 1}
	a.bound.ds = state.Default().DepthStencil
	info := testPass()
	info.depthFormat = gputypes.TextureFormatUndefined
	k1 := a.pipelineKeyFor(p, info)
	a.bound.ds.DepthCompare = gputypes.CompareFunctionAlways
	if k2 := a.pipelineKeyFor(p, info); k1 != k2 {
		t.Error("depth state matters without a depth attachment")
	}
}
