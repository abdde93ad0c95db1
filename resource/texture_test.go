// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func newTestRegistry() (*Registry, *fakeDevice) {
	dev := &fakeDevice{}
	reg := NewRegistry()
	reg.SetDevice(dev)
	return reg, dev
}

func mustTexture(t *testing.T, reg *Registry, desc TextureDescriptor) *Texture {
	t.Helper()
	tex, err := NewTexture(reg, desc)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex
}

func TestTextureDescriptorValidation(t *testing.T) {
	tests := []struct {
		name string
		desc TextureDescriptor
		ok   bool
	}{
		{"rgba", TextureDescriptor{Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm}, true},
		{"zero size", TextureDescriptor{Width: 0, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm}, false},
		{"no format", TextureDescriptor{Width: 4, Height: 4}, false},
		{"depth with color format", TextureDescriptor{
			Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm, Usage: TextureUsageDepthStencil,
		}, false},
		{"color target with depth format", TextureDescriptor{
			Width: 4, Height: 4, Format: gputypes.TextureFormatDepth24PlusStencil8, Usage: TextureUsageRenderTarget,
		}, false},
		{"full mip chain", TextureDescriptor{Width: 8, Height: 2, MipLevels: 4, Format: gputypes.TextureFormatRGBA8Unorm}, true},
		{"too many mips", TextureDescriptor{Width: 8, Height: 2, MipLevels: 5, Format: gputypes.TextureFormatRGBA8Unorm}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTexture(nil, tt.desc)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("err = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestTexturePools(t *testing.T) {
	reg, dev := newTestRegistry()
	sampled := mustTexture(t, reg, TextureDescriptor{
		Label: "sampled", Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	target := mustTexture(t, reg, TextureDescriptor{
		Label: "target", Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm,
		Usage: TextureUsageRenderTarget | TextureUsageSampled,
	})
	reg.Register(sampled)
	reg.Register(target)

	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if sampled.Native() == nil || target.Native() != nil {
		t.Fatalf("after create: sampled=%v target=%v", sampled.Native(), target.Native())
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	if target.Native() == nil {
		t.Fatal("render target not allocated on restore")
	}

	reg.Dispose()
	if sampled.Native() == nil {
		t.Error("managed texture released on dispose")
	}
	if target.Native() != nil {
		t.Error("default-pool texture kept across dispose")
	}

	reg.Destroy()
	if sampled.Native() != nil || dev.live != 0 {
		t.Errorf("live natives after destroy: %d", dev.live)
	}
	if dev.doubleFree != 0 {
		t.Errorf("double frees: %d", dev.doubleFree)
	}
}

func TestTextureShadowSurvivesRecreate(t *testing.T) {
	reg, dev := newTestRegistry()
	tex := mustTexture(t, reg, TextureDescriptor{
		Label: "t", Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err := tex.SetData(0, 0, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	if err := tex.SetData(0, 0, make([]byte, 15)); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("short data err = %v", err)
	}
	if err := tex.SetData(1, 0, make([]byte, 4)); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("missing level err = %v", err)
	}

	if _, err := reg.Attach(tex); err != nil {
		t.Fatal(err)
	}
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	first := tex.Native().(*fakeNative)
	if first.writes != 1 {
		t.Fatalf("initial upload writes = %d", first.writes)
	}

	reg.Destroy()
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	second := tex.Native().(*fakeNative)
	if second == first || second.writes != 1 {
		t.Errorf("shadow not re-uploaded: same=%v writes=%d", second == first, second.writes)
	}
	if dev.live != 1 {
		t.Errorf("live = %d", dev.live)
	}
}

func TestTextureSetImageMips(t *testing.T) {
	reg, _ := newTestRegistry()
	tex := mustTexture(t, reg, TextureDescriptor{
		Label: "img", Width: 4, Height: 4, MipLevels: 3, Format: gputypes.TextureFormatBGRA8Unorm,
	})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 50, A: 255})
		}
	}
	if err := tex.SetImage(img, true); err != nil {
		t.Fatal(err)
	}
	for level, want := range []int{64, 16, 4} {
		got := tex.shadow[level]
		if len(got) != want {
			t.Fatalf("level %d: %d bytes, want %d", level, len(got), want)
		}
		if got[0] != 50 || got[2] != 200 {
			t.Errorf("level %d first texel = %v, want BGRA order", level, got[:4])
		}
	}

	if err := tex.SetImage(image.NewRGBA(image.Rect(0, 0, 2, 2)), false); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("size mismatch err = %v", err)
	}
}

func TestTextureResizeRecreatesViews(t *testing.T) {
	reg, dev := newTestRegistry()
	tex := mustTexture(t, reg, TextureDescriptor{
		Label: "rt", Width: 64, Height: 64, Format: gputypes.TextureFormatRGBA8Unorm,
		Usage: TextureUsageRenderTarget,
	})
	if _, err := reg.Attach(tex); err != nil {
		t.Fatal(err)
	}
	view, created, err := tex.TargetView(0, 0)
	if err != nil || !created {
		t.Fatalf("TargetView = %v, %v", created, err)
	}
	if _, err := reg.Attach(view); err != nil {
		t.Fatal(err)
	}
	if again, created, _ := tex.TargetView(0, 0); again != view || created {
		t.Error("view not cached")
	}

	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	oldView := view.Native()
	if err := tex.Resize(128, 32); err != nil {
		t.Fatal(err)
	}
	if w, h := view.Size(); w != 128 || h != 32 {
		t.Errorf("view size = %dx%d", w, h)
	}
	if view.Native() == nil || view.Native() == oldView {
		t.Error("view native not re-created")
	}
	if dev.live != 2 {
		t.Errorf("live = %d, want texture and view", dev.live)
	}

	reg.Dispose()
	if dev.live != 0 {
		t.Errorf("live after dispose = %d", dev.live)
	}

	if err := tex.Resize(16, 16); err != nil {
		t.Fatal(err)
	}
	if tex.Native() != nil {
		t.Error("resize of disposed texture allocated")
	}
}

func TestTargetViewRequiresTarget(t *testing.T) {
	reg, _ := newTestRegistry()
	tex := mustTexture(t, reg, TextureDescriptor{Width: 4, Height: 4, Format: gputypes.TextureFormatRGBA8Unorm})
	if _, _, err := tex.TargetView(0, 0); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("err = %v", err)
	}
}

func TestBufferWrite(t *testing.T) {
	reg, _ := newTestRegistry()
	buf, err := NewBuffer(reg, BufferDescriptor{Label: "vb", Kind: BufferVertex, Size: 8, Dynamic: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.Write(4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := buf.Write(6, []byte{1, 2, 3}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("overflow err = %v", err)
	}
	if _, err := reg.Attach(buf); err != nil {
		t.Fatal(err)
	}
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if buf.Native() != nil {
		t.Error("dynamic buffer allocated on create")
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := buf.Write(0, []byte{9}); err != nil {
		t.Fatal(err)
	}
	if n := buf.Native().(*fakeNative); n.writes != 2 {
		t.Errorf("writes = %d, want upload + write", n.writes)
	}
	if buf.Bytes()[0] != 9 || buf.Bytes()[4] != 1 {
		t.Errorf("shadow = %v", buf.Bytes())
	}
}

func TestProgramFailureLeavesUncreated(t *testing.T) {
	reg, dev := newTestRegistry()
	prog, err := NewProgram(reg, ProgramDescriptor{Label: "p", Source: "@vertex fn vs_main() {}"})
	if err != nil {
		t.Fatal(err)
	}
	if d := prog.Descriptor(); d.VertexEntry != DefaultVertexEntry || d.FragmentEntry != DefaultFragmentEntry {
		t.Errorf("entry points = %q, %q", d.VertexEntry, d.FragmentEntry)
	}
	dev.failNext = "program"
	if err := prog.DeviceCreate(); !errors.Is(err, errInjected) {
		t.Fatalf("err = %v", err)
	}
	if prog.State() != StateUncreated {
		t.Errorf("state = %s", prog.State())
	}
	if _, err := NewProgram(reg, ProgramDescriptor{Label: "empty"}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("empty source err = %v", err)
	}
}
