// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Back-buffer format names accepted in Options.BackBufferFormat.
const (
	FormatBGRA8 = "bgra8unorm"
	FormatRGBA8 = "rgba8unorm"
)

// Options describes the device an application asks for.
//
// Zero values mean "let the display decide": the current desktop size, the
// default refresh rate, the adapter's preferred back-buffer format.
type Options struct {
	// Backend names the adapter. Empty selects the default adapter.
	Backend string `toml:"backend" yaml:"backend"`

	// WindowHandle and MonitorHandle identify the native window and
	// monitor. They are filled in by the display.
	WindowHandle  uintptr `toml:"-" yaml:"-"`
	MonitorHandle uintptr `toml:"-" yaml:"-"`

	// Monitor is the index of the monitor used for fullscreen.
	Monitor int `toml:"monitor" yaml:"monitor"`

	Title       string `toml:"title" yaml:"title"`
	Fullscreen  bool   `toml:"fullscreen" yaml:"fullscreen"`
	Width       int    `toml:"width" yaml:"width"`
	Height      int    `toml:"height" yaml:"height"`
	RefreshRate int    `toml:"refresh_rate" yaml:"refresh_rate"`
	VSync       bool   `toml:"vsync" yaml:"vsync"`

	// Software selects the software device; Reference selects the software
	// device in strict validation mode.
	Software  bool `toml:"software" yaml:"software"`
	Reference bool `toml:"reference" yaml:"reference"`

	// SampleCount is the MSAA sample count of the back buffer (0 or 1: off).
	SampleCount int `toml:"sample_count" yaml:"sample_count"`

	// BackBufferFormat is FormatBGRA8, FormatRGBA8 or empty.
	BackBufferFormat string `toml:"back_buffer_format" yaml:"back_buffer_format"`
}

// Validate reports configuration errors. It never mutates o.
func (o *Options) Validate() error {
	switch {
	case o.Width < 0 || o.Height < 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.RefreshRate < 0:
		return fmt.Errorf("%w: refresh rate %d", ErrInvalidOptions, o.RefreshRate)
	case o.Monitor < 0:
		return fmt.Errorf("%w: monitor %d", ErrInvalidOptions, o.Monitor)
	case o.Software && o.Reference:
		return fmt.Errorf("%w: software and reference devices are exclusive", ErrInvalidOptions)
	}
	switch o.SampleCount {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("%w: sample count %d", ErrInvalidOptions, o.SampleCount)
	}
	if _, err := ParseFormat(o.BackBufferFormat); err != nil {
		return err
	}
	return nil
}

// Samples returns the effective sample count (at least 1).
func (o *Options) Samples() int {
	return max(o.SampleCount, 1)
}

// Format returns the requested back-buffer format, or fallback when none
// was requested.
func (o *Options) Format(fallback gputypes.TextureFormat) gputypes.TextureFormat {
	f, err := ParseFormat(o.BackBufferFormat)
	if err != nil || f == gputypes.TextureFormatUndefined {
		return fallback
	}
	return f
}

// ParseFormat converts a back-buffer format name. The empty name yields
// TextureFormatUndefined.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	switch strings.ToLower(name) {
	case "":
		return gputypes.TextureFormatUndefined, nil
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: back-buffer format %q", ErrInvalidOptions, name)
}

// Transition is the device transition needed to apply new options.
type Transition uint8

const (
	// TransitionNone means the options are equivalent.
	TransitionNone Transition = iota

	// TransitionReset needs Dispose and Restore.
	TransitionReset

	// TransitionRecreate needs Dispose, Destroy, Create and Restore.
	TransitionRecreate
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionReset:
		return "reset"
	case TransitionRecreate:
		return "recreate"
	}
	return "none"
}

// Classify returns the cheapest transition that applies next on top of
// old. checker may be nil.
func Classify(old, next *Options, checker RecreateChecker) Transition {
	if old.WindowHandle != next.WindowHandle ||
		old.MonitorHandle != next.MonitorHandle ||
		old.Software != next.Software ||
		old.Reference != next.Reference ||
		!strings.EqualFold(old.Backend, next.Backend) {
		return TransitionRecreate
	}
	if checker != nil && checker.RequiresRecreate(old, next) {
		return TransitionRecreate
	}
	if old.Width != next.Width ||
		old.Height != next.Height ||
		old.Fullscreen != next.Fullscreen ||
		old.Monitor != next.Monitor ||
		old.RefreshRate != next.RefreshRate ||
		old.VSync != next.VSync ||
		old.Samples() != next.Samples() ||
		!strings.EqualFold(old.BackBufferFormat, next.BackBufferFormat) {
		return TransitionReset
	}
	return TransitionNone
}
