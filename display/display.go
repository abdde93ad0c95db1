// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display acquires the window and monitor a device renders to.
//
// The renderer acquires the display before the native device is opened and
// releases it after the device is destroyed. Acquire fills in the native
// handles and the resolved size of the options it receives; ApplyMode
// applies a new size, fullscreen flag or refresh rate to an acquired
// display without re-creating it.
package display

import (
	"errors"

	"github.com/gogpu/gfx/backend"
)

// ErrNotAcquired is returned by ApplyMode before Acquire.
var ErrNotAcquired = errors.New("display: not acquired")

// Default size used when the options leave it to the display.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Display is a window or an offscreen stand-in for one.
type Display interface {
	// Acquire opens the display described by opts and writes back the
	// handles and size it actually got.
	Acquire(opts *backend.Options) error

	// ApplyMode changes size, fullscreen and refresh rate in place and
	// writes back the resulting size.
	ApplyMode(opts *backend.Options) error

	// Release closes the display. It is safe to call more than once.
	Release()

	// Size returns the current drawable size in pixels.
	Size() (width, height int)
}

// Headless is a Display without a window. It keeps whatever handles the
// options carry and resolves a zero size to the defaults.
type Headless struct {
	acquired      bool
	width, height int
}

// NewHeadless returns an unacquired headless display.
func NewHeadless() *Headless {
	return &Headless{}
}

// Acquire implements Display.
func (h *Headless) Acquire(opts *backend.Options) error {
	h.acquired = true
	h.resolve(opts)
	slogger().Debug("display: headless acquired", "width", h.width, "height", h.height)
	return nil
}

// ApplyMode implements Display.
func (h *Headless) ApplyMode(opts *backend.Options) error {
	if !h.acquired {
		return ErrNotAcquired
	}
	h.resolve(opts)
	return nil
}

func (h *Headless) resolve(opts *backend.Options) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	h.width, h.height = opts.Width, opts.Height
}

// Release implements Display.
func (h *Headless) Release() {
	h.acquired = false
}

// Size implements Display.
func (h *Headless) Size() (width, height int) {
	return h.width, h.height
}

// Acquired reports whether the display is acquired.
func (h *Headless) Acquired() bool {
	return h.acquired
}
