// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipelineKey identifies a render pipeline. Dynamic state (stencil
// reference, blend constant, viewport) is set on the pass and is zeroed in
// the key.
type pipelineKey struct {
	program uint64

	colorFormats [state.MaxColorTargets]gputypes.TextureFormat
	colorCount   int
	depthFormat  gputypes.TextureFormat
	samples      uint32

	raster  state.Raster
	ds      state.DepthStencil
	blend   state.Blend
	strides [state.MaxVertexStreams]int
}

type pipeline struct {
	raw  hal.RenderPipeline
	hash uint64
}

// pipelineKeyFor builds the key for the bound state.
func (a *Adapter) pipelineKeyFor(p *program, pass *passInfo) pipelineKey {
	k := pipelineKey{
		program:      p.id,
		colorFormats: pass.colorFormats,
		colorCount:   pass.colorCount,
		depthFormat:  pass.depthFormat,
		samples:      pass.samples,
		raster:       a.bound.raster,
		ds:           a.bound.ds,
		blend:        a.bound.blend,
	}
	k.ds.Reference = 0
	k.blend.Factor = [4]float32{}
	if !k.blend.Independent {
		for i := 1; i < len(k.blend.Targets); i++ {
			k.blend.Targets[i] = state.TargetBlend{}
		}
	}
	if k.depthFormat == gputypes.TextureFormatUndefined {
		k.ds = state.DepthStencil{}
	}
	for i := range p.desc.VertexLayouts {
		k.strides[i] = a.bound.streams[i].Stride
	}
	return k
}

// hashPipelineKey computes an FNV-1a hash of k for labels and logs.
func hashPipelineKey(k *pipelineKey) uint64 {
	h := fnv.New64a()
	hashWriteUint64(h, k.program)
	hashWriteUint32(h, uint32(k.colorCount)) //nolint:gosec // G115: bounded by MaxColorTargets
	for i := 0; i < k.colorCount; i++ {
		hashWriteUint32(h, uint32(k.colorFormats[i]))
	}
	hashWriteUint32(h, uint32(k.depthFormat))
	hashWriteUint32(h, k.samples)
	hashWriteUint64(h, k.raster.Hash())
	hashWriteUint64(h, k.ds.Hash())
	hashWriteUint64(h, k.blend.Hash())
	for _, s := range k.strides {
		hashWriteUint32(h, uint32(s)) //nolint:gosec // G115: strides are small
	}
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

// renderPipelineDescriptor translates k into a hal descriptor.
func renderPipelineDescriptor(p *program, k *pipelineKey, label string) *hal.RenderPipelineDescriptor {
	strides := k.strides
	return &hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: p.desc.VertexEntry,
			Buffers:    vertexLayouts(p.desc.VertexLayouts, &strides),
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: p.desc.FragmentEntry,
			Targets:    colorTargets(&k.blend, k.colorFormats[:k.colorCount]),
		},
		DepthStencil: depthStencilState(&k.ds, k.depthFormat),
		Primitive:    primitiveState(&k.raster),
		Multisample:  multisampleState(k.samples),
	}
}

// pipelineFor returns the cached pipeline for the bound state, creating it
// on a miss.
func (a *Adapter) pipelineFor(p *program, pass *passInfo) (*pipeline, error) {
	k := a.pipelineKeyFor(p, pass)
	return a.pipelines.GetOrCreate(k, func() (*pipeline, error) {
		sum := hashPipelineKey(&k)
		label := fmt.Sprintf("%s_pipeline_%016x", p.desc.Label, sum)
		raw, err := a.device.CreateRenderPipeline(renderPipelineDescriptor(p, &k, label))
		if err != nil {
			return nil, fmt.Errorf("create render pipeline %s: %w", label, err)
		}
		slogger().Debug("wgpu: pipeline created", "label", label)
		return &pipeline{raw: raw, hash: sum}, nil
	})
}
