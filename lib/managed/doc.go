// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package managed defines the call surface of a managed runtime (an
// object heap with its own classes, garbage collector, and method
// dispatch) and the scope-bound references native code uses to reach
// into it.
//
// A [Runtime] speaks in raw [Handle] values. Native code never holds a
// raw handle directly: it opens a [Scope] for the duration of one
// boundary call and works with [Ref] values that the scope hands out.
// Every object handle the scope receives (constructor results, method
// results, new strings) is recorded as a local reference and released
// when the scope closes. After Close, every Ref from that scope is
// dead: using one returns [ErrScopeClosed] instead of touching the
// runtime. A Ref from one scope cannot be used through another scope
// ([ErrForeignReference]); this is how the package keeps borrowed
// references from escaping the call frame that produced them.
//
// Method and constructor results come back as [Result] values, which
// carry either an object reference, an int, a boolean, or nothing.
// Asking a Result for the wrong kind is an error, not a silent zero.
//
// Failures raised inside the runtime (the managed equivalent of a
// thrown exception) are surfaced as [*CallError], which records the
// operation, class, and method that failed and wraps the runtime's
// own error value.
//
// A Scope is not safe for concurrent use. It belongs to the goroutine
// that is currently attached to the runtime for the boundary call.
package managed
