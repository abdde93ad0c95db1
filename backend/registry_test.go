// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"testing"
)

type namedAdapter struct {
	Adapter
	name string
}

func (a *namedAdapter) Name() string { return a.name }

func register(t *testing.T, name string) {
	t.Helper()
	Register(name, func() Adapter { return &namedAdapter{name: name} })
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryGet(t *testing.T) {
	register(t, "test-a")

	if !IsRegistered("test-a") {
		t.Fatal("test-a not registered")
	}
	if a := Get("test-a"); a == nil || a.Name() != "test-a" {
		t.Errorf("Get = %v", a)
	}
	if a := Get("missing"); a != nil {
		t.Errorf("Get(missing) = %v", a)
	}
}

func TestRegistryDefaultPriority(t *testing.T) {
	register(t, "zzz")
	register(t, NameSoftware)
	if a := Default(); a == nil || a.Name() != NameSoftware {
		t.Errorf("Default = %v, want software", a)
	}
	register(t, NameWGPU)
	if a := Default(); a.Name() != NameWGPU {
		t.Errorf("Default = %s, want wgpu", a.Name())
	}
}

func TestSelect(t *testing.T) {
	register(t, NameSoftware)
	register(t, "test-b")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"named", Options{Backend: "test-b"}, "test-b"},
		{"software flag wins", Options{Backend: "test-b", Software: true}, NameSoftware},
		{"reference flag", Options{Reference: true}, NameSoftware},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Select(&tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if a.Name() != tt.want {
				t.Errorf("Select = %s, want %s", a.Name(), tt.want)
			}
		})
	}

	_, err := Select(&Options{Backend: "nope"})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("err = %v", err)
	}
	var nae *NotAvailableError
	if !errors.As(err, &nae) || nae.Name != "nope" {
		t.Errorf("err = %#v", err)
	}
}
