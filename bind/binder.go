// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gfx/statecache"
)

// ErrInvalidContext is returned for contexts that cannot be bound. Nothing
// reaches the adapter when it is returned.
var ErrInvalidContext = errors.New("bind: invalid context")

// Stats counts binder activity.
type Stats struct {
	// Binds is the number of Bind calls that reached the adapter.
	Binds int

	// Skipped is the number of Bind calls with nothing to emit.
	Skipped int

	// Groups is the number of groups emitted.
	Groups int

	// Rejected is the number of contexts that failed validation.
	Rejected int
}

// Binder diffs contexts against the last bound one and emits the changes
// to an adapter.
//
// Binder is not safe for concurrent use.
type Binder struct {
	adapter backend.Adapter
	caps    backend.Caps
	states  *statecache.Cache
	reg     *resource.Registry

	bound  state.Context
	valid  bool
	forced state.Groups

	// size is the target size of the bound context.
	width, height int

	depth autoDepth
	stats Stats
}

// New creates a binder. states provides native state objects; reg receives
// the render target views and the managed depth buffer.
func New(a backend.Adapter, caps backend.Caps, states *statecache.Cache, reg *resource.Registry) *Binder {
	return &Binder{
		adapter: a,
		caps:    caps.Clamp(),
		states:  states,
		reg:     reg,
	}
}

// Reset switches to a new adapter and caps, for instance after a full
// device recreate. The bound-state cache is invalidated.
func (b *Binder) Reset(a backend.Adapter, caps backend.Caps) {
	b.adapter = a
	b.caps = caps.Clamp()
	b.Invalidate()
}

// Invalidate forgets the bound context: the next Bind emits every group.
// Resource references held by the cache are dropped.
func (b *Binder) Invalidate() {
	b.bound = state.Context{}
	b.valid = false
	b.forced = state.AllGroups
}

// Force marks groups dirty for the next Bind.
func (b *Binder) Force(groups state.Groups) {
	b.forced |= groups
}

// Bound returns the last successfully bound context. ok is false when the
// cache is invalid.
func (b *Binder) Bound() (ctx state.Context, ok bool) {
	return b.bound, b.valid
}

// TargetSize returns the render target size of the bound context.
func (b *Binder) TargetSize() (width, height int) {
	return b.width, b.height
}

// Stats returns binder counters.
func (b *Binder) Stats() Stats {
	return b.stats
}

// Dirty returns the groups the next Bind of ctx would emit. Slots past
// the counts of ctx are ignored.
func (b *Binder) Dirty(ctx *state.Context, skipDirtyCheck bool) state.Groups {
	if skipDirtyCheck || !b.valid {
		return state.AllGroups
	}
	c := ctx.Canonical()
	dirty := state.Diff(&b.bound, &c) | b.forced
	// A resized target keeps the context unchanged but not its size.
	if w, h, _ := b.targetSize(&c.Targets); w != b.width || h != b.height {
		dirty = dirty.With(state.GroupTargets)
	}
	if dirty.Has(state.GroupTargets) {
		dirty = dirty.With(state.GroupViewport)
	}
	if dirty.Has(state.GroupRaster) && b.bound.Raster.ScissorEnable != ctx.Raster.ScissorEnable {
		dirty = dirty.With(state.GroupViewport)
	}
	if dirty.Has(state.GroupProgram) {
		dirty = dirty.With(state.GroupVertex)
	}
	return dirty
}

// Bind makes ctx the current state of the adapter. With skipDirtyCheck
// every group is emitted regardless of the bound context.
//
// An invalid context is rejected with ErrInvalidContext before any adapter
// call. If the adapter fails part-way, the cache is invalidated and the
// error returned; the next Bind starts from scratch.
func (b *Binder) Bind(ctx *state.Context, skipDirtyCheck bool) error {
	c := ctx.Canonical()
	ctx = &c
	if err := b.validate(ctx); err != nil {
		b.stats.Rejected++
		return err
	}

	dirty := b.Dirty(ctx, skipDirtyCheck)
	full := dirty == state.AllGroups
	if dirty == 0 {
		b.stats.Skipped++
		return nil
	}

	var err error
	dirty.Each(func(g state.Group) {
		if err != nil {
			return
		}
		if e := b.emit(g, ctx, full); e != nil {
			err = fmt.Errorf("bind %s: %w", g, e)
		}
	})
	if err != nil {
		b.Invalidate()
		slogger().Warn("bind: adapter failed, cache invalidated", "error", err)
		return err
	}

	b.stats.Binds++
	b.stats.Groups += dirty.Len()
	b.bound = *ctx
	b.valid = true
	b.forced = 0
	slogger().Debug("bind", "groups", dirty.String())
	return nil
}

func (b *Binder) emit(g state.Group, ctx *state.Context, full bool) error {
	a := b.adapter
	switch g {
	case state.GroupTargets:
		return b.bindTargets(&ctx.Targets)
	case state.GroupViewport:
		return a.SetViewport(resolveViewport(&ctx.Viewport, &ctx.Raster, b.width, b.height))
	case state.GroupRaster:
		obj, err := b.states.GetOrCreate(ctx.Raster)
		if err != nil {
			return err
		}
		return a.SetRasterState(&ctx.Raster, obj)
	case state.GroupDepthStencil:
		obj, err := b.states.GetOrCreate(ctx.DepthStencil)
		if err != nil {
			return err
		}
		return a.SetDepthStencilState(&ctx.DepthStencil, obj)
	case state.GroupBlend:
		obj, err := b.states.GetOrCreate(ctx.Blend)
		if err != nil {
			return err
		}
		return a.SetBlendState(&ctx.Blend, obj)
	case state.GroupProgram:
		return a.BindProgram(ctx.Program)
	case state.GroupVertex:
		n := b.slotRange(ctx.Vertex.Count, b.bound.Vertex.Count, b.caps.MaxVertexStreams, full)
		for i := 0; i < n; i++ {
			s := state.VertexStream{}
			if i < ctx.Vertex.Count {
				s = ctx.Vertex.Streams[i]
			}
			if err := a.BindVertexStream(i, &s); err != nil {
				return err
			}
		}
		return nil
	case state.GroupIndex:
		return a.BindIndexBuffer(&ctx.Index)
	case state.GroupTextures:
		n := b.slotRange(ctx.Textures.Count, b.bound.Textures.Count, b.caps.MaxTextureSlots, full)
		for i := 0; i < n; i++ {
			if err := b.bindTexture(i, ctx); err != nil {
				return err
			}
		}
		return nil
	case state.GroupConstants:
		n := b.slotRange(ctx.Constants.Count, b.bound.Constants.Count, b.caps.MaxConstantSlots, full)
		for i := 0; i < n; i++ {
			c := state.ConstantBinding{}
			if i < ctx.Constants.Count {
				c = ctx.Constants.Slots[i]
			}
			if err := a.BindConstants(i, &c); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// slotRange returns how many slots of a group to bind: every slot the adapter
// has on a full rebind, otherwise enough to overwrite the old ones.
func (b *Binder) slotRange(count, old, limit int, full bool) int {
	if full {
		return limit
	}
	return max(count, old)
}

func (b *Binder) bindTexture(i int, ctx *state.Context) error {
	slot := ctx.Textures.Slots[i]
	if i >= ctx.Textures.Count || slot.Texture == nil {
		return b.adapter.BindTexture(i, nil, nil, nil)
	}
	obj, err := b.states.GetOrCreate(slot.Sampler)
	if err != nil {
		return err
	}
	return b.adapter.BindTexture(i, slot.Texture, obj, &slot.Sampler)
}

// Release destroys the managed depth buffer and unregisters it.
func (b *Binder) Release() {
	b.depth.release(b.reg)
	b.Invalidate()
}

// AutoDepth returns the managed depth buffer, or nil before it is needed.
func (b *Binder) AutoDepth() *resource.Texture {
	return b.depth.tex
}
