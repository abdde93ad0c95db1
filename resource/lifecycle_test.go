// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"errors"
	"testing"
)

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		op      string
		want    State
		wantErr bool
	}{
		{"create from uncreated", StateUncreated, "create", StateCreated, false},
		{"create from destroyed", StateDestroyed, "create", StateCreated, false},
		{"create twice", StateCreated, "create", StateCreated, true},
		{"create while restored", StateRestored, "create", StateRestored, true},
		{"restore from created", StateCreated, "restore", StateRestored, false},
		{"restore from disposed", StateDisposed, "restore", StateRestored, false},
		{"restore while restored", StateRestored, "restore", StateRestored, false},
		{"restore uncreated", StateUncreated, "restore", StateUncreated, true},
		{"restore destroyed", StateDestroyed, "restore", StateDestroyed, true},
		{"dispose restored", StateRestored, "dispose", StateDisposed, false},
		{"dispose created", StateCreated, "dispose", StateCreated, false},
		{"dispose uncreated", StateUncreated, "dispose", StateUncreated, false},
		{"destroy created", StateCreated, "destroy", StateDestroyed, false},
		{"destroy restored", StateRestored, "destroy", StateDestroyed, false},
		{"destroy disposed", StateDisposed, "destroy", StateDestroyed, false},
		{"destroy uncreated", StateUncreated, "destroy", StateUncreated, false},
		{"destroy destroyed", StateDestroyed, "destroy", StateDestroyed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lifecycle{state: tt.from}
			var err error
			switch tt.op {
			case "create":
				err = l.Create(nil)
			case "restore":
				err = l.Restore(nil)
			case "dispose":
				l.Dispose(nil)
			case "destroy":
				l.Destroy(nil)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("%s from %s: err = %v, wantErr %v", tt.op, tt.from, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
			if l.State() != tt.want {
				t.Errorf("state = %s, want %s", l.State(), tt.want)
			}
		})
	}
}

func TestLifecycleFailedHookKeepsState(t *testing.T) {
	var l Lifecycle
	if err := l.Create(func() error { return errInjected }); !errors.Is(err, errInjected) {
		t.Fatalf("Create err = %v", err)
	}
	if l.State() != StateUncreated {
		t.Fatalf("state after failed create = %s", l.State())
	}
	if err := l.Create(nil); err != nil {
		t.Fatal(err)
	}
	if err := l.Restore(func() error { return errInjected }); !errors.Is(err, errInjected) {
		t.Fatalf("Restore err = %v", err)
	}
	if l.State() != StateCreated {
		t.Fatalf("state after failed restore = %s", l.State())
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	var log []string
	r := &recorder{name: "a", log: &log}
	if err := r.DeviceCreate(); err != nil {
		t.Fatal(err)
	}
	if err := r.DeviceRestore(); err != nil {
		t.Fatal(err)
	}

	r.DeviceDispose()
	once := r.State()
	r.DeviceDispose()

	if r.State() != once {
		t.Errorf("state after second dispose = %s, want %s", r.State(), once)
	}
	want := []string{"create a", "restore a", "dispose a"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestDestroyAllowsRecreate(t *testing.T) {
	var l Lifecycle
	for i := 0; i < 2; i++ {
		if err := l.Create(nil); err != nil {
			t.Fatalf("round %d create: %v", i, err)
		}
		if err := l.Restore(nil); err != nil {
			t.Fatalf("round %d restore: %v", i, err)
		}
		l.Dispose(nil)
		l.Destroy(nil)
		if l.State() != StateDestroyed {
			t.Fatalf("round %d state = %s", i, l.State())
		}
	}
}

func TestStateString(t *testing.T) {
	if got := StateRestored.String(); got != "restored" {
		t.Errorf("String() = %q", got)
	}
	if got := State(42).String(); got != "State(42)" {
		t.Errorf("String() = %q", got)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
