// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"
	"fmt"
)

var errInjected = errors.New("injected failure")

// fakeNative records its own destruction.
type fakeNative struct {
	kind      string
	label     string
	dev       *fakeDevice
	destroyed bool
	writes    int
}

func (n *fakeNative) Destroy() {
	if n.destroyed {
		n.dev.doubleFree++
		return
	}
	n.destroyed = true
	n.dev.live--
}

// fakeDevice is a Device that counts native objects.
type fakeDevice struct {
	live       int
	created    int
	doubleFree int
	failNext   string
	log        []string
}

func (d *fakeDevice) alloc(kind, label string) (Native, error) {
	if d.failNext == kind {
		d.failNext = ""
		return nil, errInjected
	}
	d.live++
	d.created++
	d.log = append(d.log, fmt.Sprintf("new %s %s", kind, label))
	return &fakeNative{kind: kind, label: label, dev: d}, nil
}

func (d *fakeDevice) NewTexture(desc *TextureDescriptor) (Native, error) {
	return d.alloc("texture", desc.Label)
}

func (d *fakeDevice) WriteTexture(tex Native, level, slice int, data []byte) error {
	n := tex.(*fakeNative)
	if n.destroyed {
		return ErrNotReady
	}
	n.writes++
	d.log = append(d.log, fmt.Sprintf("write %s %d:%d %d", n.label, level, slice, len(data)))
	return nil
}

func (d *fakeDevice) NewTargetView(tex Native, desc *TargetViewDescriptor) (Native, error) {
	if tex.(*fakeNative).destroyed {
		return nil, ErrNotReady
	}
	return d.alloc("view", desc.Label)
}

func (d *fakeDevice) NewBuffer(desc *BufferDescriptor) (Native, error) {
	return d.alloc("buffer", desc.Label)
}

func (d *fakeDevice) WriteBuffer(buf Native, offset int, data []byte) error {
	n := buf.(*fakeNative)
	if n.destroyed {
		return ErrNotReady
	}
	n.writes++
	return nil
}

func (d *fakeDevice) NewProgram(desc *ProgramDescriptor) (Native, error) {
	return d.alloc("program", desc.Label)
}

// recorder is a Resource that appends its name to a shared log.
type recorder struct {
	Lifecycle
	name   string
	log    *[]string
	failOn string
}

func (r *recorder) hook(phase string) error {
	*r.log = append(*r.log, phase+" "+r.name)
	if r.failOn == phase {
		return errInjected
	}
	return nil
}

func (r *recorder) DeviceCreate() error {
	return r.Create(func() error { return r.hook("create") })
}

func (r *recorder) DeviceRestore() error {
	return r.Restore(func() error { return r.hook("restore") })
}

func (r *recorder) DeviceDispose() {
	r.Dispose(func() { _ = r.hook("dispose") })
}

func (r *recorder) DeviceDestroy() {
	r.Destroy(func() { _ = r.hook("destroy") })
}
