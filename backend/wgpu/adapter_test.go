// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gputypes"
)

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.NameWGPU) {
		t.Fatal("wgpu adapter is not registered")
	}
	if got := New().Name(); got != backend.NameWGPU {
		t.Errorf("Name() = %q", got)
	}
}

func TestRequiresRecreate(t *testing.T) {
	base := backend.Options{Width: 640, Height: 480}
	tests := []struct {
		name   string
		change func(*backend.Options)
		want   bool
	}{
		{"same", func(*backend.Options) {}, false},
		{"size", func(o *backend.Options) { o.Width = 800 }, false},
		{"format", func(o *backend.Options) { o.BackBufferFormat = backend.FormatRGBA8 }, true},
		{"explicit default format", func(o *backend.Options) { o.BackBufferFormat = backend.FormatBGRA8 }, false},
		{"samples", func(o *backend.Options) { o.SampleCount = 4 }, true},
		{"one sample", func(o *backend.Options) { o.SampleCount = 1 }, false},
	}
	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base
			tt.change(&next)
			if got := a.RequiresRecreate(&base, &next); got != tt.want {
				t.Errorf("RequiresRecreate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotReadyWithoutDevice(t *testing.T) {
	a := New()
	if _, err := a.QueryCaps(); !errors.Is(err, backend.ErrDeviceNotReady) {
		t.Errorf("QueryCaps = %v, want ErrDeviceNotReady", err)
	}
	if err := a.SetViewport(backend.PixelViewport{}); !errors.Is(err, backend.ErrDeviceNotReady) {
		t.Errorf("SetViewport = %v, want ErrDeviceNotReady", err)
	}
	if err := a.Present(); !errors.Is(err, backend.ErrDeviceNotReady) {
		t.Errorf("Present = %v, want ErrDeviceNotReady", err)
	}
	if _, err := a.ReadBack(); !errors.Is(err, backend.ErrDeviceNotReady) {
		t.Errorf("ReadBack = %v, want ErrDeviceNotReady", err)
	}
}

func TestCapsFromLimits(t *testing.T) {
	c := capsFromLimits("gpu", gputypes.DefaultLimits())
	if c.AdapterName != "gpu" {
		t.Errorf("AdapterName = %q", c.AdapterName)
	}
	if c.MaxColorTargets > state.MaxColorTargets || c.MaxTextureSlots > state.MaxTextureSlots ||
		c.MaxVertexStreams > state.MaxVertexStreams || c.MaxConstantSlots > state.MaxConstantSlots {
		t.Errorf("caps not clamped: %v", c)
	}
	if c.MaxTextureSize <= 0 {
		t.Errorf("MaxTextureSize = %d", c.MaxTextureSize)
	}
}

func TestStateObjectsWithoutDevice(t *testing.T) {
	a := New()
	obj, err := a.NewStateObject(state.Default().Raster)
	if err != nil {
		t.Fatalf("raster object: %v", err)
	}
	obj.Destroy()
	if _, err := a.NewStateObject(state.DefaultSampler()); err == nil {
		t.Error("sampler without a device succeeded")
	}
}
