// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"testing"

	"github.com/gogpu/gfx/backend"
)

func TestHeadless(t *testing.T) {
	tests := []struct {
		name          string
		opts          backend.Options
		width, height int
	}{
		{"defaults", backend.Options{}, DefaultWidth, DefaultHeight},
		{"explicit", backend.Options{Width: 1280, Height: 720}, 1280, 720},
		{"partial", backend.Options{Width: 800}, 800, DefaultHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewHeadless()
			opts := tt.opts
			if err := d.Acquire(&opts); err != nil {
				t.Fatal(err)
			}
			if w, h := d.Size(); w != tt.width || h != tt.height {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
			if opts.Width != tt.width || opts.Height != tt.height {
				t.Errorf("options resolved to %dx%d, want %dx%d", opts.Width, opts.Height, tt.width, tt.height)
			}
		})
	}
}

func TestHeadlessApplyMode(t *testing.T) {
	d := NewHeadless()
	if err := d.ApplyMode(&backend.Options{}); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("ApplyMode before Acquire = %v, want ErrNotAcquired", err)
	}
	if err := d.Acquire(&backend.Options{}); err != nil {
		t.Fatal(err)
	}
	if err := d.ApplyMode(&backend.Options{Width: 320, Height: 200}); err != nil {
		t.Fatal(err)
	}
	if w, h := d.Size(); w != 320 || h != 200 {
		t.Errorf("Size() = %dx%d after ApplyMode, want 320x200", w, h)
	}
	d.Release()
	d.Release()
	if d.Acquired() {
		t.Error("still acquired after Release")
	}
}
