// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"testing"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/state"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

type noopDevice struct{}

func (noopDevice) Poll(bool) {}
func (noopDevice) Destroy()  {}

type noopQueue struct{}

type noopGPU struct{}

// sharedProvider hands a noop hal device to the adapter.
type sharedProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *sharedProvider) Device() gpucontext.Device   { return noopDevice{} }
func (p *sharedProvider) Queue() gpucontext.Queue     { return noopQueue{} }
func (p *sharedProvider) Adapter() gpucontext.Adapter { return noopGPU{} }
func (p *sharedProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (p *sharedProvider) HalDevice() any { return p.device }
func (p *sharedProvider) HalQueue() any  { return p.queue }

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) *sharedProvider {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &sharedProvider{device: openDev.Device, queue: openDev.Queue}
}

func TestSharedDevice(t *testing.T) {
	p := createNoopDevice(t)
	a := New(WithDeviceProvider(p))
	dev := a.Subsystems().Device

	opts := backend.Options{Width: 320, Height: 200, SampleCount: 4}
	if err := dev.DeviceCreate(&opts); err != nil {
		t.Fatalf("DeviceCreate: %v", err)
	}
	caps, err := a.QueryCaps()
	if err != nil {
		t.Fatalf("QueryCaps: %v", err)
	}
	if caps.AdapterName != "shared" {
		t.Errorf("AdapterName = %q, want shared", caps.AdapterName)
	}
	bb := a.BackBuffer()
	if bb.Width != 320 || bb.Height != 200 || bb.SampleCount != 4 {
		t.Errorf("BackBuffer = %+v", bb)
	}
	if bb.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", bb.Format)
	}

	obj, err := a.NewStateObject(state.DefaultSampler())
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	obj.Destroy()

	dev.DeviceDestroy()
	if a.device != nil || a.external {
		t.Error("device still held after DeviceDestroy")
	}
	if _, err := a.QueryCaps(); err == nil {
		t.Error("QueryCaps succeeded after DeviceDestroy")
	}
}

func TestSharedDeviceWithoutHal(t *testing.T) {
	a := New(WithDeviceProvider(&halLessProvider{}))
	opts := backend.Options{}
	if err := a.Subsystems().Device.DeviceCreate(&opts); err == nil {
		t.Fatal("DeviceCreate succeeded without hal types")
	}
}

type halLessProvider struct{}

func (halLessProvider) Device() gpucontext.Device   { return noopDevice{} }
func (halLessProvider) Queue() gpucontext.Queue     { return noopQueue{} }
func (halLessProvider) Adapter() gpucontext.Adapter { return noopGPU{} }
func (halLessProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
