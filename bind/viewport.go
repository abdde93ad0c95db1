// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/gfx/backend"
	"github.com/gogpu/gfx/state"
)

// resolveViewport converts vp to pixels for a width x height target. An
// empty rectangle covers the target. The scissor rectangle is clipped to
// the viewport and covers it when scissoring is off or the rectangle is
// empty.
func resolveViewport(vp *state.Viewport, r *state.Raster, width, height int) backend.PixelViewport {
	tw, th := float32(width), float32(height)

	rect := vp.Rect
	switch {
	case rect.IsEmpty():
		rect = state.Rect{Width: tw, Height: th}
	case vp.Normalized:
		rect = scaleRect(rect, tw, th)
	}

	out := backend.PixelViewport{
		X:        rect.X,
		Y:        rect.Y,
		Width:    rect.Width,
		Height:   rect.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}

	sc := rect
	if r.ScissorEnable && !vp.Scissor.IsEmpty() {
		sc = vp.Scissor
		if vp.Normalized {
			sc = scaleRect(sc, tw, th)
		}
	}

	// Pixel edges: the scissor may not leave the viewport or the target.
	x0 := math32.Max(math32.Max(sc.X, rect.X), 0)
	y0 := math32.Max(math32.Max(sc.Y, rect.Y), 0)
	x1 := math32.Min(math32.Min(sc.X+sc.Width, rect.X+rect.Width), tw)
	y1 := math32.Min(math32.Min(sc.Y+sc.Height, rect.Y+rect.Height), th)
	x0, y0 = math32.Floor(x0), math32.Floor(y0)
	x1, y1 = math32.Ceil(x1), math32.Ceil(y1)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	out.ScissorX, out.ScissorY = int(x0), int(y0)
	out.ScissorWidth, out.ScissorHeight = int(x1-x0), int(y1-y0)
	return out
}

func scaleRect(r state.Rect, w, h float32) state.Rect {
	return state.Rect{
		X:      math32.Round(r.X * w),
		Y:      math32.Round(r.Y * h),
		Width:  math32.Round(r.Width * w),
		Height: math32.Round(r.Height * h),
	}
}
