// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package statecache

import (
	"errors"
	"testing"

	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
)

type countingObject struct {
	destroyed *int
}

func (o countingObject) Destroy() { *o.destroyed++ }

type countingFactory struct {
	created   int
	destroyed int
	fail      bool
}

func (f *countingFactory) NewStateObject(state.Block) (resource.Native, error) {
	if f.fail {
		return nil, errors.New("no state objects")
	}
	f.created++
	return countingObject{destroyed: &f.destroyed}, nil
}

func TestGetOrCreateReusesObjects(t *testing.T) {
	f := &countingFactory{}
	c := New(f, 0)
	ctx := state.Default()

	a, err := c.GetOrCreate(ctx.Blend)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.GetOrCreate(ctx.Blend)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || f.created != 1 {
		t.Errorf("same block created %d objects", f.created)
	}

	if _, err := c.GetOrCreate(ctx.Raster); err != nil {
		t.Fatal(err)
	}
	other := ctx.Raster
	other.Cull = gputypes.CullModeNone
	if _, err := c.GetOrCreate(other); err != nil {
		t.Fatal(err)
	}
	if c.Size() != 3 {
		t.Errorf("Size = %d", c.Size())
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 3 {
		t.Errorf("hits=%d misses=%d", hits, misses)
	}
	if got := c.HitRate(); got != 0.25 {
		t.Errorf("HitRate = %v", got)
	}

	c.DestroyAll()
	if f.destroyed != 3 || c.Size() != 0 {
		t.Errorf("destroyed=%d size=%d", f.destroyed, c.Size())
	}
}

func TestLimitDestroysEvicted(t *testing.T) {
	f := &countingFactory{}
	c := New(f, 1)
	ctx := state.Default()
	for _, b := range []state.Block{ctx.Raster, ctx.DepthStencil, ctx.Blend} {
		if _, err := c.GetOrCreate(b); err != nil {
			t.Fatal(err)
		}
	}
	if c.Size() != 1 || f.destroyed != 2 {
		t.Errorf("size=%d destroyed=%d", c.Size(), f.destroyed)
	}
}

func TestFactoryErrors(t *testing.T) {
	c := New(nil, 0)
	if _, err := c.GetOrCreate(state.DefaultSampler()); !errors.Is(err, ErrNoFactory) {
		t.Errorf("err = %v", err)
	}
	f := &countingFactory{fail: true}
	c.SetFactory(f)
	if _, err := c.GetOrCreate(state.DefaultSampler()); err == nil {
		t.Error("factory error swallowed")
	}
	if c.Size() != 0 {
		t.Error("failed object cached")
	}
}
