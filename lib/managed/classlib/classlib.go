// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package classlib is the managed-side class library installed into a
// [heap.Heap]: the collection and Optional classes the boundary relies
// on, and the Cedar value classes whose instances cross it.
//
// Class names here are the managed side of the compatibility contract
// with package interop. Renaming one breaks every cast against it, so
// interop's tests check the two sides agree.
package classlib

import (
	"fmt"

	"github.com/felixzheng98/cedar-java/lib/managed/heap"
)

// Managed class names provided by this library.
const (
	ArrayList        = "java/util/ArrayList"
	Optional         = "java/util/Optional"
	EntityTypeName   = "com/cedarpolicy/value/EntityTypeName"
	EntityIdentifier = "com/cedarpolicy/value/EntityIdentifier"
	EntityUID        = "com/cedarpolicy/value/EntityUID"
	Policy           = "com/cedarpolicy/model/policy/Policy"
	FormatterConfig  = "com/cedarpolicy/model/formatter/Config"
)

// Install defines every class of the library in h.
func Install(h *heap.Heap) error {
	classes := []*heap.Class{
		arrayListClass(),
		optionalClass(),
		entityTypeNameClass(),
		entityIdentifierClass(),
		entityUIDClass(),
		policyClass(),
		formatterConfigClass(),
	}
	for _, c := range classes {
		if err := h.Define(c); err != nil {
			return fmt.Errorf("installing class library: %w", err)
		}
	}
	return nil
}

// NewHeap returns a heap with the class library installed.
func NewHeap() *heap.Heap {
	h := heap.New()
	if err := Install(h); err != nil {
		// Install only fails on duplicate definitions, which cannot
		// happen on a fresh heap.
		panic(err)
	}
	return h
}

// expectClass raises ClassCastException unless o is null or an
// instance of class.
func expectClass(o *heap.Object, class string) error {
	if o == nil || o.Class().Name == class {
		return nil
	}
	return heap.Throw(heap.ClassCastException, o.Class().Name+" cannot be cast to "+class)
}
