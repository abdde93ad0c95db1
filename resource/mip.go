// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// mipChain returns levels images: img converted to RGBA followed by
// successive half-size downsamples.
func mipChain(img image.Image, levels int) []*image.RGBA {
	b := img.Bounds()
	base := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(base, base.Bounds(), img, b.Min, xdraw.Src)

	chain := make([]*image.RGBA, 0, levels)
	chain = append(chain, base)
	for len(chain) < levels {
		prev := chain[len(chain)-1]
		w, h := max(prev.Rect.Dx()/2, 1), max(prev.Rect.Dy()/2, 1)
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(next, next.Rect, prev, prev.Rect, xdraw.Src, nil)
		chain = append(chain, next)
	}
	return chain
}

// tightPixels returns the pixels of img without row padding.
func tightPixels(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 {
		return img.Pix[:w*h*4]
	}
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		off := y * img.Stride
		out = append(out, img.Pix[off:off+w*4]...)
	}
	return out
}

func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
