// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/gfx/backend"
)

func TestOptionsFileRoundTrip(t *testing.T) {
	want := Options{
		Backend:          backend.NameSoftware,
		Title:            "demo",
		Width:            1280,
		Height:           720,
		VSync:            true,
		SampleCount:      4,
		BackBufferFormat: backend.FormatRGBA8,
		WindowHandle:     99,
	}
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gfx"+ext)
			if err := SaveOptions(path, want); err != nil {
				t.Fatal(err)
			}
			got, err := LoadOptions(path)
			if err != nil {
				t.Fatal(err)
			}
			expected := want
			expected.WindowHandle = 0
			if got != expected {
				t.Errorf("LoadOptions() = %+v, want %+v", got, expected)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Options
		wantErr error
	}{
		{
			name:    "toml",
			file:    "a.toml",
			content: "width = 800\nheight = 600\nfullscreen = true\nrefresh_rate = 144\n",
			want:    Options{Width: 800, Height: 600, Fullscreen: true, RefreshRate: 144},
		},
		{
			name:    "yaml",
			file:    "a.yaml",
			content: "backend: wgpu\nsample_count: 8\nback_buffer_format: bgra8\n",
			want:    Options{Backend: "wgpu", SampleCount: 8, BackBufferFormat: "bgra8"},
		},
		{
			name:    "invalid values",
			file:    "a.toml",
			content: "sample_count = 3\n",
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "unknown extension",
			file:    "a.json",
			content: "{}",
			wantErr: ErrUnknownFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			got, err := LoadOptions(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadOptions() = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("LoadOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadOptionsSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("width = = 3"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Fatal("LoadOptions() accepted a broken file")
	}
}

func TestWatchOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfx.toml")
	if err := SaveOptions(path, Options{Width: 640, Height: 480}); err != nil {
		t.Fatal(err)
	}
	w, err := WatchOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := SaveOptions(path, Options{Width: 1024, Height: 768}); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case opts := <-w.C:
			if opts.Width == 1024 && opts.Height == 768 {
				return
			}
		case err := <-w.Errors:
			// A write may be observed half-done; the next event delivers.
			t.Logf("reload error: %v", err)
		case <-deadline:
			t.Fatal("no options delivered after the file changed")
		}
	}
}

func TestWatchOptionsClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfx.yaml")
	if err := SaveOptions(path, Options{}); err != nil {
		t.Fatal(err)
	}
	w, err := WatchOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
