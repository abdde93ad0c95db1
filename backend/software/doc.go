// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software provides the reference adapter: a backend that executes
// nothing and instead records what the core asked for.
//
// The adapter keeps the complete last-bound state per group and slot
// ([Adapter.Bound]), counts primitive calls, logs them in order, and can
// fail any lifecycle step or primitive on demand. It backs the software and
// reference device flags of [backend.Options] and serves as the test double
// for the binder and the renderer.
//
// In reference mode (Options.Reference, or [WithReference]) every
// primitive additionally checks that the resources it receives are
// restored and own a native object.
//
// Importing the package registers the adapter under [backend.NameSoftware].
package software
