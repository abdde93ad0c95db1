// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"
	"testing"
)

func newRecorders(log *[]string, names ...string) []*recorder {
	out := make([]*recorder, len(names))
	for i, n := range names {
		out[i] = &recorder{name: n, log: log}
	}
	return out
}

func TestRegistryReplayOrder(t *testing.T) {
	var log []string
	reg := NewRegistry()
	for _, r := range newRecorders(&log, "A", "B", "C") {
		reg.Register(r)
	}

	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	reg.Dispose()
	reg.Destroy()

	want := []string{
		"create A", "create B", "create C",
		"restore A", "restore B", "restore C",
		"dispose C", "dispose B", "dispose A",
		"destroy C", "destroy B", "destroy A",
	}
	if !equalStrings(log, want) {
		t.Errorf("visit order:\n got %v\nwant %v", log, want)
	}
}

func TestRegistryDisposeTwice(t *testing.T) {
	var log []string
	reg := NewRegistry()
	for _, r := range newRecorders(&log, "A", "B") {
		reg.Register(r)
	}
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	reg.Dispose()
	n := len(log)
	reg.Dispose()
	if len(log) != n {
		t.Errorf("second Dispose visited %v", log[n:])
	}
	if reg.Phase() != PhaseDisposed {
		t.Errorf("phase = %s", reg.Phase())
	}
}

func TestRegistryCreateStopsAtFirstFailure(t *testing.T) {
	var log []string
	rs := newRecorders(&log, "A", "B", "C")
	rs[1].failOn = "create"
	reg := NewRegistry()
	for _, r := range rs {
		reg.Register(r)
	}

	err := reg.Create()
	if !errors.Is(err, errInjected) {
		t.Fatalf("Create err = %v", err)
	}
	if reg.Phase() != PhaseNone {
		t.Errorf("phase = %s after failed create", reg.Phase())
	}
	reg.Destroy()

	want := []string{"create A", "create B", "destroy A"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	for _, r := range rs {
		if r.State() == StateCreated {
			t.Errorf("%s left created", r.name)
		}
	}
}

func TestRegistryHandles(t *testing.T) {
	var log []string
	rs := newRecorders(&log, "A", "B")
	reg := NewRegistry()

	ha := reg.Register(rs[0])
	if ha.IsZero() {
		t.Fatal("zero handle for new resource")
	}
	if dup := reg.Register(rs[0]); !dup.IsZero() {
		t.Error("duplicate registration returned a handle")
	}
	if got, ok := reg.Lookup(ha); !ok || got != rs[0] {
		t.Errorf("Lookup = %v, %v", got, ok)
	}

	if !reg.Unregister(rs[0]) {
		t.Fatal("Unregister returned false")
	}
	if reg.Unregister(rs[0]) {
		t.Error("second Unregister returned true")
	}
	if _, ok := reg.Lookup(ha); ok {
		t.Error("stale handle resolved")
	}

	hb := reg.Register(rs[1])
	if hb.index != ha.index {
		t.Fatalf("slot not reused: %d vs %d", hb.index, ha.index)
	}
	if got, ok := reg.Lookup(ha); ok {
		t.Errorf("stale handle resolved to %v", got)
	}
	if reg.Len() != 1 || !reg.Contains(rs[1]) || reg.Contains(rs[0]) {
		t.Error("registry contents wrong after reuse")
	}
	if _, ok := reg.Lookup(Handle{}); ok {
		t.Error("zero handle resolved")
	}
}

func TestRegistryAttachCatchesUp(t *testing.T) {
	tests := []struct {
		name  string
		setup func(reg *Registry)
		want  State
	}{
		{"before create", func(*Registry) {}, StateUncreated},
		{"after create", func(reg *Registry) { _ = reg.Create() }, StateCreated},
		{"after restore", func(reg *Registry) { _ = reg.Create(); _ = reg.Restore() }, StateRestored},
		{"after dispose", func(reg *Registry) { _ = reg.Create(); _ = reg.Restore(); reg.Dispose() }, StateCreated},
		{"after destroy", func(reg *Registry) { _ = reg.Create(); reg.Destroy() }, StateUncreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			reg := NewRegistry()
			tt.setup(reg)
			r := &recorder{name: "late", log: &log}
			if _, err := reg.Attach(r); err != nil {
				t.Fatal(err)
			}
			if r.State() != tt.want {
				t.Errorf("state = %s, want %s", r.State(), tt.want)
			}
		})
	}
}

func TestRegistryAttachFailureUnregisters(t *testing.T) {
	var log []string
	reg := NewRegistry()
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	r := &recorder{name: "bad", log: &log, failOn: "restore"}
	if _, err := reg.Attach(r); !errors.Is(err, errInjected) {
		t.Fatalf("Attach err = %v", err)
	}
	if reg.Contains(r) {
		t.Error("failed resource still registered")
	}
	if r.State() != StateDestroyed {
		t.Errorf("state = %s, want destroyed", r.State())
	}
	if _, err := reg.Attach(nil); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Attach(nil) err = %v", err)
	}
}

func TestRegistryEachStops(t *testing.T) {
	var log []string
	reg := NewRegistry()
	for _, r := range newRecorders(&log, "A", "B", "C") {
		reg.Register(r)
	}
	var seen []string
	reg.Each(func(r Resource) bool {
		seen = append(seen, r.(*recorder).name)
		return len(seen) < 2
	})
	if !equalStrings(seen, []string{"A", "B"}) {
		t.Errorf("Each visited %v", seen)
	}
}

func TestRegistryRegisterOnLiveDevice(t *testing.T) {
	var log []string
	reg := NewRegistry()
	a := &recorder{name: "A", log: &log}
	reg.Register(a)
	if err := reg.Create(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}

	late := &recorder{name: "late", log: &log}
	reg.Register(late)
	if late.State() != StateUncreated {
		t.Fatalf("Register replayed a phase: state = %s", late.State())
	}

	n := len(log)
	reg.Dispose()
	if err := reg.Restore(); err != nil {
		t.Fatalf("Restore after late Register: %v", err)
	}
	want := []string{"dispose A", "restore A", "create late", "restore late"}
	if !equalStrings(log[n:], want) {
		t.Errorf("reset log = %v, want %v", log[n:], want)
	}
	if late.State() != StateRestored {
		t.Errorf("late state = %s, want restored", late.State())
	}

	// A second reset must not create it again.
	n = len(log)
	reg.Dispose()
	if err := reg.Restore(); err != nil {
		t.Fatal(err)
	}
	want = []string{"dispose late", "dispose A", "restore A", "restore late"}
	if !equalStrings(log[n:], want) {
		t.Errorf("second reset log = %v, want %v", log[n:], want)
	}
}
