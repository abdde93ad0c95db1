// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint8

const (
	// TextureUsageSampled allows the texture to be bound to a texture slot.
	TextureUsageSampled TextureUsage = 1 << iota

	// TextureUsageRenderTarget allows the texture to be a color target.
	TextureUsageRenderTarget

	// TextureUsageDepthStencil allows the texture to be a depth/stencil target.
	TextureUsageDepthStencil
)

// TextureDescriptor describes parameters for creating a texture.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the size of mip level 0 in pixels.
	Width, Height int

	// Layers is the array layer count; 6 for a cube. Zero means 1.
	Layers int

	// Cube marks a cube texture (Layers is forced to 6).
	Cube bool

	// MipLevels is the mip level count. Zero means 1.
	MipLevels int

	// SampleCount is the MSAA sample count. Zero means 1.
	SampleCount int

	// Format is the texel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// Pool returns the memory pool implied by the usage: render and depth
// targets live in the default pool, everything else is managed.
func (d *TextureDescriptor) Pool() Pool {
	if d.Usage&(TextureUsageRenderTarget|TextureUsageDepthStencil) != 0 {
		return PoolDefault
	}
	return PoolManaged
}

// LevelSize returns the size of the given mip level.
func (d *TextureDescriptor) LevelSize(level int) (width, height int) {
	width, height = d.Width>>level, d.Height>>level
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

func (d *TextureDescriptor) normalize() {
	if d.Layers <= 0 {
		d.Layers = 1
	}
	if d.Cube {
		d.Layers = 6
	}
	if d.MipLevels <= 0 {
		d.MipLevels = 1
	}
	if d.SampleCount <= 0 {
		d.SampleCount = 1
	}
}

func (d *TextureDescriptor) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: texture %q size %dx%d", ErrInvalidDescriptor, d.Label, d.Width, d.Height)
	}
	if d.Format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: texture %q has no format", ErrInvalidDescriptor, d.Label)
	}
	if d.Usage&TextureUsageDepthStencil != 0 && !IsDepthFormat(d.Format) {
		return fmt.Errorf("%w: depth texture %q uses a color format", ErrInvalidDescriptor, d.Label)
	}
	if d.Usage&TextureUsageRenderTarget != 0 && IsDepthFormat(d.Format) {
		return fmt.Errorf("%w: color target %q uses a depth format", ErrInvalidDescriptor, d.Label)
	}
	maxLevels := 1
	for s := max(d.Width, d.Height); s > 1; s >>= 1 {
		maxLevels++
	}
	if d.MipLevels > maxLevels {
		return fmt.Errorf("%w: texture %q has %d mip levels, at most %d fit",
			ErrInvalidDescriptor, d.Label, d.MipLevels, maxLevels)
	}
	return nil
}

// Texture is a GPU texture with a CPU shadow copy of its contents.
//
// The shadow copy is uploaded again whenever the native texture is
// re-created, so texture contents survive device loss.
type Texture struct {
	Lifecycle

	reg    *Registry
	desc   TextureDescriptor
	native Native

	// shadow holds one entry per (slice, level): index slice*MipLevels+level.
	shadow [][]byte
	views  []*TargetView
}

// NewTexture validates desc and returns an uncreated texture bound to reg.
// The texture is not registered; see [Registry.Attach].
func NewTexture(reg *Registry, desc TextureDescriptor) (*Texture, error) {
	desc.normalize()
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return &Texture{
		reg:    reg,
		desc:   desc,
		shadow: make([][]byte, desc.Layers*desc.MipLevels),
	}, nil
}

// Descriptor returns the texture descriptor.
func (t *Texture) Descriptor() TextureDescriptor {
	return t.desc
}

// Width returns the width of mip level 0.
func (t *Texture) Width() int {
	return t.desc.Width
}

// Height returns the height of mip level 0.
func (t *Texture) Height() int {
	return t.desc.Height
}

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.desc.Format
}

// LevelSize returns the size of the given mip level.
func (t *Texture) LevelSize(level int) (width, height int) {
	return t.desc.LevelSize(level)
}

// Pool returns the memory pool of the texture.
func (t *Texture) Pool() Pool {
	return t.desc.Pool()
}

// Native returns the backend texture, or nil when none is allocated.
func (t *Texture) Native() Native {
	return t.native
}

// DeviceCreate allocates managed textures.
func (t *Texture) DeviceCreate() error {
	return t.Create(func() error {
		if t.Pool() == PoolManaged {
			return t.alloc()
		}
		return nil
	})
}

// DeviceRestore allocates default-pool textures.
func (t *Texture) DeviceRestore() error {
	return t.Restore(func() error {
		if t.Pool() == PoolDefault {
			return t.alloc()
		}
		return nil
	})
}

// DeviceDispose releases default-pool textures.
func (t *Texture) DeviceDispose() {
	t.Dispose(func() {
		if t.Pool() == PoolDefault {
			t.native = destroyNative(t.native)
		}
	})
}

// DeviceDestroy releases the native texture.
func (t *Texture) DeviceDestroy() {
	t.Destroy(func() {
		t.native = destroyNative(t.native)
	})
}

func (t *Texture) alloc() error {
	if t.native != nil {
		return nil
	}
	dev := t.reg.Device()
	if dev == nil {
		return ErrNoDevice
	}
	n, err := dev.NewTexture(&t.desc)
	if err != nil {
		return fmt.Errorf("texture %q: %w", t.desc.Label, err)
	}
	for i, data := range t.shadow {
		if data == nil {
			continue
		}
		slice, level := i/t.desc.MipLevels, i%t.desc.MipLevels
		if err := dev.WriteTexture(n, level, slice, data); err != nil {
			n.Destroy()
			return fmt.Errorf("texture %q upload level %d slice %d: %w", t.desc.Label, level, slice, err)
		}
	}
	t.native = n
	return nil
}

// SetData replaces the contents of one mip level of one slice. The data is
// kept in the shadow copy and uploaded immediately when the native texture
// exists.
func (t *Texture) SetData(level, slice int, data []byte) error {
	if level < 0 || level >= t.desc.MipLevels || slice < 0 || slice >= t.desc.Layers {
		return fmt.Errorf("%w: texture %q has no level %d slice %d", ErrInvalidDescriptor, t.desc.Label, level, slice)
	}
	w, h := t.desc.LevelSize(level)
	if want := w * h * BytesPerPixel(t.desc.Format); len(data) != want {
		return fmt.Errorf("%w: texture %q level %d needs %d bytes, got %d",
			ErrInvalidDescriptor, t.desc.Label, level, want, len(data))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	t.shadow[slice*t.desc.MipLevels+level] = buf

	if t.native == nil {
		return nil
	}
	dev := t.reg.Device()
	if dev == nil {
		return ErrNoDevice
	}
	return dev.WriteTexture(t.native, level, slice, buf)
}

// SetImage uploads img into slice 0. When generateMips is set every
// remaining mip level is filled by downsampling. The texture must use an
// 8-bit RGBA or BGRA format and match the image size.
func (t *Texture) SetImage(img image.Image, generateMips bool) error {
	b := img.Bounds()
	if b.Dx() != t.desc.Width || b.Dy() != t.desc.Height {
		return fmt.Errorf("%w: texture %q is %dx%d, image is %dx%d",
			ErrInvalidDescriptor, t.desc.Label, t.desc.Width, t.desc.Height, b.Dx(), b.Dy())
	}
	bgra := false
	switch t.desc.Format {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		bgra = true
	default:
		return fmt.Errorf("%w: texture %q format does not accept images", ErrInvalidDescriptor, t.desc.Label)
	}
	levels := 1
	if generateMips {
		levels = t.desc.MipLevels
	}
	for level, rgba := range mipChain(img, levels) {
		pix := tightPixels(rgba)
		if bgra {
			swapRedBlue(pix)
		}
		if err := t.SetData(level, 0, pix); err != nil {
			return err
		}
	}
	return nil
}

// Resize changes the size of level 0. The shadow copy is dropped. If the
// native texture exists it is re-created at the new size together with
// every target view.
func (t *Texture) Resize(width, height int) error {
	if width == t.desc.Width && height == t.desc.Height {
		return nil
	}
	desc := t.desc
	desc.Width, desc.Height = width, height
	if err := desc.validate(); err != nil {
		return err
	}

	live := t.native != nil
	for _, v := range t.views {
		v.native = destroyNative(v.native)
	}
	t.native = destroyNative(t.native)
	t.desc = desc
	t.shadow = make([][]byte, desc.Layers*desc.MipLevels)
	if !live {
		return nil
	}
	if err := t.alloc(); err != nil {
		return err
	}
	for _, v := range t.views {
		if v.State() == StateCreated || v.State() == StateRestored {
			if err := v.alloc(); err != nil {
				return err
			}
		}
	}
	return nil
}

// TargetView returns the render target view of (level, slice), creating it
// on first use. created reports whether the view is new; a new view is not
// registered yet and must be attached by the caller.
func (t *Texture) TargetView(level, slice int) (view *TargetView, created bool, err error) {
	if t.desc.Usage&(TextureUsageRenderTarget|TextureUsageDepthStencil) == 0 {
		return nil, false, fmt.Errorf("%w: texture %q is not a render target", ErrInvalidDescriptor, t.desc.Label)
	}
	if level < 0 || level >= t.desc.MipLevels || slice < 0 || slice >= t.desc.Layers {
		return nil, false, fmt.Errorf("%w: texture %q has no level %d slice %d", ErrInvalidDescriptor, t.desc.Label, level, slice)
	}
	for _, v := range t.views {
		if v.desc.Level == level && v.desc.Slice == slice {
			return v, false, nil
		}
	}
	v := &TargetView{
		tex: t,
		desc: TargetViewDescriptor{
			Label:  fmt.Sprintf("%s[%d:%d]", t.desc.Label, level, slice),
			Level:  level,
			Slice:  slice,
			Format: t.desc.Format,
		},
	}
	t.views = append(t.views, v)
	return v, true, nil
}

// Views returns the target views created for this texture.
func (t *Texture) Views() []*TargetView {
	return t.views
}

// dropView forgets v; called when a view is released.
func (t *Texture) dropView(v *TargetView) {
	for i, x := range t.views {
		if x == v {
			t.views = append(t.views[:i], t.views[i+1:]...)
			return
		}
	}
}
