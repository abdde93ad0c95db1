// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// BlockKind identifies the type of a state block.
type BlockKind uint8

const (
	KindRaster BlockKind = iota
	KindDepthStencil
	KindBlend
	KindSampler
)

// String returns the kind name.
func (k BlockKind) String() string {
	switch k {
	case KindRaster:
		return "raster"
	case KindDepthStencil:
		return "depth-stencil"
	case KindBlend:
		return "blend"
	case KindSampler:
		return "sampler"
	}
	return "unknown"
}

// Block is an immutable state description that a backend may turn into a
// native state object. Equal blocks have equal hashes.
type Block interface {
	Kind() BlockKind
	Hash() uint64
}

var (
	_ Block = Raster{}
	_ Block = DepthStencil{}
	_ Block = Blend{}
	_ Block = SamplerState{}
)

// Kind returns KindRaster.
func (Raster) Kind() BlockKind { return KindRaster }

// Hash returns the FNV-1a hash of the block.
func (r Raster) Hash() uint64 {
	h := fnv.New64a()
	hashWriteUint32(h, uint32(r.Fill))
	hashWriteUint32(h, uint32(r.Cull))
	hashWriteUint32(h, uint32(r.FrontFace))
	hashWriteUint32(h, uint32(r.DepthBias))
	hashWriteFloat32(h, r.SlopeScaledDepthBias)
	hashWriteFloat32(h, r.DepthBiasClamp)
	hashWriteBool(h, r.ScissorEnable)
	return h.Sum64()
}

// Kind returns KindDepthStencil.
func (DepthStencil) Kind() BlockKind { return KindDepthStencil }

// Hash returns the FNV-1a hash of the block.
func (d DepthStencil) Hash() uint64 {
	h := fnv.New64a()
	hashWriteBool(h, d.DepthTest)
	hashWriteBool(h, d.DepthWrite)
	hashWriteUint32(h, uint32(d.DepthCompare))
	hashWriteBool(h, d.StencilEnable)
	for _, f := range [2]StencilFace{d.Front, d.Back} {
		hashWriteUint32(h, uint32(f.Compare))
		_, _ = h.Write([]byte{byte(f.Fail), byte(f.DepthFail), byte(f.Pass)})
	}
	_, _ = h.Write([]byte{d.ReadMask, d.WriteMask, d.Reference})
	return h.Sum64()
}

// Kind returns KindBlend.
func (Blend) Kind() BlockKind { return KindBlend }

// Hash returns the FNV-1a hash of the block.
func (b Blend) Hash() uint64 {
	h := fnv.New64a()
	for _, t := range b.Targets {
		hashWriteBool(h, t.Enable)
		for _, c := range [2]BlendComponent{t.Color, t.Alpha} {
			hashWriteUint32(h, uint32(c.Src))
			hashWriteUint32(h, uint32(c.Dst))
			hashWriteUint32(h, uint32(c.Op))
		}
		hashWriteUint32(h, uint32(t.WriteMask))
	}
	hashWriteBool(h, b.Independent)
	hashWriteBool(h, b.AlphaToCoverage)
	for _, f := range b.Factor {
		hashWriteFloat32(h, f)
	}
	hashWriteUint32(h, b.SampleMask)
	return h.Sum64()
}

// Kind returns KindSampler.
func (SamplerState) Kind() BlockKind { return KindSampler }

// Hash returns the FNV-1a hash of the block.
func (s SamplerState) Hash() uint64 {
	h := fnv.New64a()
	hashWriteUint32(h, uint32(s.MinFilter))
	hashWriteUint32(h, uint32(s.MagFilter))
	hashWriteUint32(h, uint32(s.MipFilter))
	hashWriteUint32(h, uint32(s.AddressU))
	hashWriteUint32(h, uint32(s.AddressV))
	hashWriteUint32(h, uint32(s.AddressW))
	hashWriteUint32(h, uint32(s.Compare))
	hashWriteUint32(h, uint32(s.MaxAnisotropy))
	hashWriteFloat32(h, s.LodMinClamp)
	hashWriteFloat32(h, s.LodMaxClamp)
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteFloat32(h hash.Hash64, v float32) {
	hashWriteUint32(h, math.Float32bits(v))
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
