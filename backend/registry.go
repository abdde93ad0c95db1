// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"sort"
	"sync"
)

// Adapter names.
const (
	NameWGPU     = "wgpu"
	NameSoftware = "software"
)

// Factory creates a new adapter instance.
type Factory func() Adapter

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for adapter selection (first available wins).
	priority = []string{NameWGPU, NameSoftware}
)

// Register registers an adapter factory with the given name.
// This is typically called from init() functions in adapter packages.
// A factory with the same name is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes an adapter from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of registered adapters.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an adapter with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get returns a new adapter by name, or nil if it is not registered.
func Get(name string) Adapter {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available adapter based on priority, or nil if
// no adapter is registered.
func Default() Adapter {
	for _, name := range priority {
		if a := Get(name); a != nil {
			return a
		}
	}
	for _, name := range Available() {
		if a := Get(name); a != nil {
			return a
		}
	}
	return nil
}

// Select returns the adapter the options ask for: the software adapter for
// the software and reference devices, the named adapter, or Default.
func Select(opts *Options) (Adapter, error) {
	name := opts.Backend
	if opts.Software || opts.Reference {
		name = NameSoftware
	}
	var a Adapter
	if name == "" {
		a = Default()
	} else {
		a = Get(name)
	}
	if a == nil {
		if name == "" {
			name = "default"
		}
		return nil, &NotAvailableError{Name: name}
	}
	return a, nil
}

// NotAvailableError reports the name of a missing adapter.
type NotAvailableError struct {
	Name string
}

func (e *NotAvailableError) Error() string {
	return "backend: " + e.Name + " not available"
}

// Unwrap returns ErrBackendNotAvailable.
func (e *NotAvailableError) Unwrap() error {
	return ErrBackendNotAvailable
}
