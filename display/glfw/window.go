// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glfw implements display.Display with a GLFW window.
//
// GLFW must be driven from the main thread. Import this package only from
// programs whose render loop runs on the main goroutine; init locks it to
// the main OS thread.
package glfw

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/display"
)

// ErrNoMonitor is returned when fullscreen is requested for a monitor that
// is not connected.
var ErrNoMonitor = errors.New("glfw: monitor not connected")

func init() {
	runtime.LockOSThread()
}

// Window is a GLFW window without a client API; the backend creates its
// own surface from the native handle.
type Window struct {
	win      *glfw.Window
	onResize func(width, height int)

	width, height int
	// windowed position restored when leaving fullscreen.
	x, y int
}

var _ display.Display = (*Window)(nil)

// New returns an unopened window.
func New() *Window {
	return &Window{}
}

// OnResize sets a callback for framebuffer size changes. It runs inside
// PollEvents on the main thread.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

// Acquire implements display.Display. A zero size selects the desktop size
// of the target monitor.
func (w *Window) Acquire(opts *backend.Options) error {
	if w.win != nil {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: init: %w", err)
	}
	mon, err := monitor(opts.Monitor)
	if err != nil {
		glfw.Terminate()
		return err
	}
	width, height, refresh := mode(mon, opts)

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if refresh > 0 {
		glfw.WindowHint(glfw.RefreshRate, refresh)
	}
	var full *glfw.Monitor
	if opts.Fullscreen {
		full = mon
	}
	title := opts.Title
	if title == "" {
		title = "gfx"
	}
	win, err := glfw.CreateWindow(width, height, title, full, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw: create window: %w", err)
	}
	w.win = win
	w.x, w.y = win.GetPos()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.writeBack(opts)
	display.Logger().Info("display: window opened",
		"width", opts.Width,
		"height", opts.Height,
		"fullscreen", opts.Fullscreen,
		"monitor", opts.Monitor)
	return nil
}

// ApplyMode implements display.Display.
func (w *Window) ApplyMode(opts *backend.Options) error {
	if w.win == nil {
		return display.ErrNotAcquired
	}
	mon, err := monitor(opts.Monitor)
	if err != nil {
		return err
	}
	width, height, refresh := mode(mon, opts)
	if opts.Fullscreen {
		if w.win.GetMonitor() == nil {
			w.x, w.y = w.win.GetPos()
		}
		w.win.SetMonitor(mon, 0, 0, width, height, refresh)
	} else {
		w.win.SetMonitor(nil, w.x, w.y, width, height, 0)
	}
	w.writeBack(opts)
	return nil
}

// writeBack stores the native handles and the framebuffer size in opts.
func (w *Window) writeBack(opts *backend.Options) {
	w.width, w.height = w.win.GetFramebufferSize()
	opts.Width, opts.Height = w.width, w.height
	opts.WindowHandle = uintptr(w.win.Handle())
	opts.MonitorHandle = 0
	if opts.Fullscreen {
		// Monitors are identified by index; 0 means windowed.
		opts.MonitorHandle = uintptr(opts.Monitor + 1)
	}
}

// Release implements display.Display.
func (w *Window) Release() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	display.Logger().Info("display: window closed")
}

// Size implements display.Display.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// PollEvents processes pending window events. It returns false once the
// user asked to close the window.
func (w *Window) PollEvents() bool {
	if w.win == nil || w.win.ShouldClose() {
		return false
	}
	glfw.PollEvents()
	return true
}

func monitor(index int) (*glfw.Monitor, error) {
	mons := glfw.GetMonitors()
	if index < 0 || index >= len(mons) {
		if index == 0 {
			return glfw.GetPrimaryMonitor(), nil
		}
		return nil, fmt.Errorf("%w: %d of %d", ErrNoMonitor, index, len(mons))
	}
	return mons[index], nil
}

// mode resolves the window size and refresh rate against the video mode of
// mon.
func mode(mon *glfw.Monitor, opts *backend.Options) (width, height, refresh int) {
	width, height, refresh = opts.Width, opts.Height, opts.RefreshRate
	desktopW, desktopH := display.DefaultWidth, display.DefaultHeight
	if mon != nil {
		vm := mon.GetVideoMode()
		desktopW, desktopH = vm.Width, vm.Height
		if refresh <= 0 && opts.Fullscreen {
			refresh = vm.RefreshRate
		}
	}
	if width <= 0 {
		width = desktopW
	}
	if height <= 0 {
		height = desktopH
	}
	return width, height, refresh
}
