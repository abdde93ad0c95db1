// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

import (
	"fmt"
	"math/bits"
	"strings"
)

// Group identifies one block of a Context. Groups are declared in bind
// order: targets and viewport first, then fixed-function state, then the
// program, then per-stage resources.
type Group uint8

const (
	GroupTargets Group = iota
	GroupViewport
	GroupRaster
	GroupDepthStencil
	GroupBlend
	GroupProgram
	GroupVertex
	GroupIndex
	GroupTextures
	GroupConstants

	// NumGroups is the number of groups.
	NumGroups
)

var groupNames = [NumGroups]string{
	GroupTargets:      "targets",
	GroupViewport:     "viewport",
	GroupRaster:       "raster",
	GroupDepthStencil: "depth-stencil",
	GroupBlend:        "blend",
	GroupProgram:      "program",
	GroupVertex:       "vertex",
	GroupIndex:        "index",
	GroupTextures:     "textures",
	GroupConstants:    "constants",
}

// String returns the group name.
func (g Group) String() string {
	if g < NumGroups {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", g)
}

// Groups is a set of groups.
type Groups uint16

// AllGroups contains every group.
const AllGroups Groups = 1<<NumGroups - 1

// Of returns the set containing gs.
func Of(gs ...Group) Groups {
	var s Groups
	for _, g := range gs {
		s |= 1 << g
	}
	return s
}

// Has reports whether g is in the set.
func (s Groups) Has(g Group) bool {
	return s&(1<<g) != 0
}

// With returns the set with g added.
func (s Groups) With(g Group) Groups {
	return s | 1<<g
}

// Len returns the number of groups in the set.
func (s Groups) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Each calls fn for every group of the set in bind order.
func (s Groups) Each(fn func(Group)) {
	for g := Group(0); g < NumGroups; g++ {
		if s.Has(g) {
			fn(g)
		}
	}
}

// String lists the group names, e.g. "targets|blend".
func (s Groups) String() string {
	if s == 0 {
		return "none"
	}
	var names []string
	s.Each(func(g Group) { names = append(names, g.String()) })
	return strings.Join(names, "|")
}

// Diff returns the groups whose blocks differ between a and b.
func Diff(a, b *Context) Groups {
	var d Groups
	if a.Targets != b.Targets {
		d |= 1 << GroupTargets
	}
	if a.Viewport != b.Viewport {
		d |= 1 << GroupViewport
	}
	if a.Raster != b.Raster {
		d |= 1 << GroupRaster
	}
	if a.DepthStencil != b.DepthStencil {
		d |= 1 << GroupDepthStencil
	}
	if a.Blend != b.Blend {
		d |= 1 << GroupBlend
	}
	if a.Program != b.Program {
		d |= 1 << GroupProgram
	}
	if a.Vertex != b.Vertex {
		d |= 1 << GroupVertex
	}
	if a.Index != b.Index {
		d |= 1 << GroupIndex
	}
	if a.Textures != b.Textures {
		d |= 1 << GroupTextures
	}
	if a.Constants != b.Constants {
		d |= 1 << GroupConstants
	}
	return d
}
