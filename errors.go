// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"

	"github.com/gogpu/gfx/backend"
)

// Renderer errors.
var (
	// ErrNotInitialized is returned before Init succeeded.
	ErrNotInitialized = errors.New("gfx: renderer not initialized")

	// ErrAlreadyInitialized is returned by Init on a live renderer.
	ErrAlreadyInitialized = errors.New("gfx: renderer already initialized")

	// ErrDeviceUnavailable is returned by frame and factory calls that need
	// a restored device.
	ErrDeviceUnavailable = errors.New("gfx: device unavailable")

	// ErrInvalidOptions wraps option validation failures.
	ErrInvalidOptions = backend.ErrInvalidOptions
)
