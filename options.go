// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/display"
)

// Options describes the device an application asks for. See
// backend.Options for the fields.
type Options = backend.Options

// DefaultStateCacheLimit is the number of native state objects kept before
// the least recently used ones are destroyed.
const DefaultStateCacheLimit = 1024

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Headless software device
//	r := gfx.New()
//
//	// Explicit adapter and a window
//	r := gfx.New(gfx.WithAdapter(wgpu.New()), gfx.WithDisplay(glfw.New()))
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	adapter         backend.Adapter
	display         display.Display
	listeners       []Listener
	stateCacheLimit int
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{stateCacheLimit: DefaultStateCacheLimit}
}

// WithAdapter uses a instead of selecting an adapter from the options.
// The adapter is kept across option changes that name a different
// backend.
func WithAdapter(a backend.Adapter) RendererOption {
	return func(o *rendererOptions) {
		o.adapter = a
	}
}

// WithDisplay sets the display. The default is display.NewHeadless().
func WithDisplay(d display.Display) RendererOption {
	return func(o *rendererOptions) {
		o.display = d
	}
}

// WithListener subscribes l before Init.
func WithListener(l Listener) RendererOption {
	return func(o *rendererOptions) {
		o.listeners = append(o.listeners, l)
	}
}

// WithStateCacheLimit bounds the native state object cache. Zero keeps
// every object until the device is destroyed.
func WithStateCacheLimit(n int) RendererOption {
	return func(o *rendererOptions) {
		o.stateCacheLimit = max(n, 0)
	}
}
