// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/state"
)

func (r *Renderer) ready() error {
	if r.state != StateRestored {
		return fmt.Errorf("%w: device is %s", ErrDeviceUnavailable, r.state)
	}
	return nil
}

// BindContext makes ctx the current state. Only the groups that differ
// from the previous context reach the adapter unless skipDirtyCheck is
// set.
func (r *Renderer) BindContext(ctx *state.Context, skipDirtyCheck bool) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.binder.Bind(ctx, skipDirtyCheck)
}

// TargetSize returns the render target size of the bound context.
func (r *Renderer) TargetSize() (width, height int) {
	return r.binder.TargetSize()
}

// Clear clears the bound render targets.
func (r *Renderer) Clear(flags backend.ClearFlags, values backend.ClearValues) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.adapter.Clear(flags, values)
}

// Draw draws non-indexed primitives with the bound state.
func (r *Renderer) Draw(vertexCount, firstVertex int) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.adapter.Draw(vertexCount, firstVertex)
}

// DrawIndexed draws indexed primitives with the bound state.
func (r *Renderer) DrawIndexed(indexCount, firstIndex, baseVertex int) error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.adapter.DrawIndexed(indexCount, firstIndex, baseVertex)
}

// Present finishes the frame.
func (r *Renderer) Present() error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.adapter.Present(); err != nil {
		return err
	}
	r.stats.Frames++
	return nil
}
