// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package heap is an in-process managed runtime: a class table, an
// object model, and method dispatch through registered Go functions.
// It implements [managed.Runtime] so that boundary code can be driven
// without an external virtual machine, and it records every
// constructor and method invocation so tests can assert exactly which
// calls a conversion made.
//
// The heap defines only java/lang/String on its own. The rest of the
// class library (collections, Optional, the Cedar value classes) is
// installed by package classlib.
//
// Failures raised by managed code are [*Exception] values carrying a
// managed exception class name.
package heap
