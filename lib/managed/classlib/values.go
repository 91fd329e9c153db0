// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package classlib

import (
	"strconv"
	"sync/atomic"

	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/managed/heap"
)

// typeNameState is the managed state of an EntityTypeName: the
// namespace list object and the base name string, exactly as passed to
// the constructor.
type typeNameState struct {
	namespace *heap.Object
	basename  *heap.Object
}

type entityUIDState struct {
	entityType *heap.Object
	id         *heap.Object
}

type policyState struct {
	source *heap.Object
	id     *heap.Object
}

type formatterState struct {
	lineWidth   int32
	indentWidth int32
}

// getter returns a method that yields one object field of the
// receiver's state.
func getter[S any](field func(S) *heap.Object) heap.Method {
	return func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
		return h.Return(field(self.State.(S))), nil
	}
}

func entityTypeNameClass() *heap.Class {
	return &heap.Class{
		Name: EntityTypeName,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			namespace, err := h.NonNullArg(args, 0, "namespace")
			if err != nil {
				return nil, err
			}
			if _, err := ListItems(namespace); err != nil {
				return nil, err
			}
			basename, err := h.NonNullArg(args, 1, "basename")
			if err != nil {
				return nil, err
			}
			if err := expectClass(basename, heap.ClassString); err != nil {
				return nil, err
			}
			return &typeNameState{namespace: namespace, basename: basename}, nil
		},
		Methods: map[string]heap.Method{
			"getNamespace": getter(func(s *typeNameState) *heap.Object { return s.namespace }),
			"getBaseName":  getter(func(s *typeNameState) *heap.Object { return s.basename }),
		},
	}
}

func entityIdentifierClass() *heap.Class {
	return &heap.Class{
		Name: EntityIdentifier,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			id, err := h.NonNullArg(args, 0, "id")
			if err != nil {
				return nil, err
			}
			if err := expectClass(id, heap.ClassString); err != nil {
				return nil, err
			}
			return id, nil
		},
		Methods: map[string]heap.Method{
			"getId": getter(func(s *heap.Object) *heap.Object { return s }),
		},
	}
}

func entityUIDClass() *heap.Class {
	return &heap.Class{
		Name: EntityUID,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			entityType, err := h.NonNullArg(args, 0, "type")
			if err != nil {
				return nil, err
			}
			if err := expectClass(entityType, EntityTypeName); err != nil {
				return nil, err
			}
			id, err := h.NonNullArg(args, 1, "id")
			if err != nil {
				return nil, err
			}
			if err := expectClass(id, EntityIdentifier); err != nil {
				return nil, err
			}
			return &entityUIDState{entityType: entityType, id: id}, nil
		},
		Methods: map[string]heap.Method{
			"getType": getter(func(s *entityUIDState) *heap.Object { return s.entityType }),
			"getId":   getter(func(s *entityUIDState) *heap.Object { return s.id }),
		},
	}
}

// policyIDCounter numbers generated policy ids. It is process-wide,
// like the static counter of the managed class, so ids stay distinct
// across heaps.
var policyIDCounter atomic.Int64

// policyClass follows com.cedarpolicy.model.policy.Policy: a null
// source throws, a null id is replaced with "policyN" from
// policyIDCounter.
func policyClass() *heap.Class {
	return &heap.Class{
		Name: Policy,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			source, err := h.ObjectArg(args, 0)
			if err != nil {
				return nil, err
			}
			if source == nil {
				return nil, heap.Throw(heap.NullPointerException, "Failed to construct policy from null string")
			}
			if err := expectClass(source, heap.ClassString); err != nil {
				return nil, err
			}
			id, err := h.ObjectArg(args, 1)
			if err != nil {
				return nil, err
			}
			if err := expectClass(id, heap.ClassString); err != nil {
				return nil, err
			}
			if id == nil {
				id = h.StringObject("policy" + strconv.FormatInt(policyIDCounter.Add(1), 10))
			}
			return &policyState{source: source, id: id}, nil
		},
		Methods: map[string]heap.Method{
			"getID":     getter(func(s *policyState) *heap.Object { return s.id }),
			"getSource": getter(func(s *policyState) *heap.Object { return s.source }),
		},
	}
}

func formatterConfigClass() *heap.Class {
	return &heap.Class{
		Name: FormatterConfig,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			lineWidth, err := h.IntArg(args, 0)
			if err != nil {
				return nil, err
			}
			indentWidth, err := h.IntArg(args, 1)
			if err != nil {
				return nil, err
			}
			return &formatterState{lineWidth: lineWidth, indentWidth: indentWidth}, nil
		},
		Methods: map[string]heap.Method{
			"getLineWidth": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.IntValue(self.State.(*formatterState).lineWidth), nil
			},
			"getIndentWidth": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.IntValue(self.State.(*formatterState).indentWidth), nil
			},
		},
	}
}
