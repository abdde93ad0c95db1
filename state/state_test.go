// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

import (
	"testing"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

func TestDiffIdentical(t *testing.T) {
	a, b := Default(), Default()
	if d := Diff(&a, &b); d != 0 {
		t.Errorf("Diff(default, default) = %s", d)
	}
}

func TestDiffPerGroup(t *testing.T) {
	prog := &resource.Program{}
	buf := &resource.Buffer{}
	tex := &resource.Texture{}

	tests := []struct {
		name   string
		mutate func(*Context)
		want   Group
	}{
		{"targets", func(c *Context) { c.Targets.NoAutoDepth = true }, GroupTargets},
		{"viewport", func(c *Context) { c.Viewport.Rect.Width = 10 }, GroupViewport},
		{"raster", func(c *Context) { c.Raster.Cull = gputypes.CullModeNone }, GroupRaster},
		{"depth", func(c *Context) { c.DepthStencil.DepthWrite = false }, GroupDepthStencil},
		{"blend", func(c *Context) { c.Blend.Factor[2] = 0.5 }, GroupBlend},
		{"program", func(c *Context) { c.Program = prog }, GroupProgram},
		{"vertex", func(c *Context) { c.Vertex.Streams[3].Buffer = buf }, GroupVertex},
		{"index", func(c *Context) { c.Index.Buffer = buf }, GroupIndex},
		{"textures", func(c *Context) { c.Textures.Slots[0].Texture = tex }, GroupTextures},
		{"constants", func(c *Context) { c.Constants.Count = 1 }, GroupConstants},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := Default(), Default()
			tt.mutate(&b)
			if got := Diff(&a, &b); got != Of(tt.want) {
				t.Errorf("Diff = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGroupsSet(t *testing.T) {
	s := Of(GroupBlend, GroupTargets).With(GroupTextures)
	if s.Len() != 3 {
		t.Errorf("Len = %d", s.Len())
	}
	if !s.Has(GroupBlend) || s.Has(GroupRaster) {
		t.Error("Has mismatch")
	}
	if got := s.String(); got != "targets|blend|textures" {
		t.Errorf("String = %q", got)
	}
	if AllGroups.Len() != int(NumGroups) {
		t.Errorf("AllGroups has %d groups", AllGroups.Len())
	}
	var order []Group
	AllGroups.Each(func(g Group) { order = append(order, g) })
	for i, g := range order {
		if int(g) != i {
			t.Fatalf("Each order = %v", order)
		}
	}
	if Groups(0).String() != "none" {
		t.Error("empty set name")
	}
}

func TestBlockHash(t *testing.T) {
	ctx := Default()
	other := ctx
	other.Raster.DepthBias = 4
	other.DepthStencil.Front.Pass = StencilReplace
	other.Blend.Targets[5].Enable = true

	blocks := []struct {
		name string
		a, b Block
		kind BlockKind
	}{
		{"raster", ctx.Raster, other.Raster, KindRaster},
		{"depth-stencil", ctx.DepthStencil, other.DepthStencil, KindDepthStencil},
		{"blend", ctx.Blend, other.Blend, KindBlend},
		{"sampler", DefaultSampler(), SamplerState{MaxAnisotropy: 8}, KindSampler},
	}
	for _, tt := range blocks {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Kind() != tt.kind {
				t.Errorf("Kind = %s", tt.a.Kind())
			}
			if tt.a.Hash() != tt.a.Hash() {
				t.Error("hash not stable")
			}
			if tt.a.Hash() == tt.b.Hash() {
				t.Error("different blocks share a hash")
			}
		})
	}
}

func TestBlendTarget(t *testing.T) {
	var b Blend
	b.Targets[0].Enable = true
	if !b.Target(3).Enable {
		t.Error("shared blend not applied to target 3")
	}
	b.Independent = true
	if b.Target(3).Enable {
		t.Error("independent blend used target 0")
	}
}

func TestTargetsBackBuffer(t *testing.T) {
	var tg Targets
	if !tg.IsBackBuffer() {
		t.Error("zero targets should select the back buffer")
	}
	tg.Depth = Target{Texture: &resource.Texture{}}
	if tg.IsBackBuffer() {
		t.Error("depth-only targets selected the back buffer")
	}
}

func TestCanonical(t *testing.T) {
	buf := &resource.Buffer{}
	tex := &resource.Texture{}

	a := Default()
	a.Textures.Slots[0].Texture = tex
	a.Textures.Count = 1
	a.Constants.Slots[0].Buffer = buf
	a.Constants.Count = 1

	b := a
	b.Textures.Slots[3].Texture = tex
	b.Constants.Slots[1].Buffer = buf
	b.Vertex.Streams[2].Buffer = buf
	b.Targets.Color[1].Texture = tex

	if Diff(&a, &b) == 0 {
		t.Fatal("raw contexts should differ")
	}
	ca, cb := a.Canonical(), b.Canonical()
	if ca != cb {
		t.Error("canonical forms differ")
	}
	if d := Diff(&ca, &cb); d != 0 {
		t.Errorf("Diff(canonical) = %s, want none", d)
	}
	if ca.Textures.Slots[0].Texture != tex || ca.Constants.Slots[0].Buffer != buf {
		t.Error("slots within the counts were dropped")
	}
}
