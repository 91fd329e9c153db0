// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package classlib

import (
	"fmt"

	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/managed/heap"
)

type listState struct {
	items []*heap.Object
}

// ListItems returns the elements of a java/util/ArrayList object.
func ListItems(o *heap.Object) ([]*heap.Object, error) {
	state, ok := o.State.(*listState)
	if !ok {
		return nil, heap.Throw(heap.ClassCastException, o.Class().Name+" cannot be cast to java/util/List")
	}
	return state.items, nil
}

func arrayListClass() *heap.Class {
	return &heap.Class{
		Name: ArrayList,
		Constructor: func(h *heap.Heap, args []managed.Value) (any, error) {
			if len(args) != 0 {
				return nil, heap.Throw(heap.IllegalArgumentException, "ArrayList() takes no arguments")
			}
			return &listState{}, nil
		},
		Methods: map[string]heap.Method{
			"add": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				item, err := h.ObjectArg(args, 0)
				if err != nil {
					return managed.Value{}, err
				}
				state := self.State.(*listState)
				state.items = append(state.items, item)
				return managed.BoolValue(true), nil
			},
			"get": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				index, err := h.IntArg(args, 0)
				if err != nil {
					return managed.Value{}, err
				}
				state := self.State.(*listState)
				if index < 0 || int(index) >= len(state.items) {
					return managed.Value{}, heap.Throw(heap.IndexOutOfBounds,
						fmt.Sprintf("Index %d out of bounds for length %d", index, len(state.items)))
				}
				return h.Return(state.items[index]), nil
			},
			"size": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.IntValue(int32(len(self.State.(*listState).items))), nil
			},
			"isEmpty": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.BoolValue(len(self.State.(*listState).items) == 0), nil
			},
		},
	}
}

// optionalClass follows java.util.Optional: empty() returns one shared
// instance per heap, of(null) throws, and there is no public
// constructor.
func optionalClass() *heap.Class {
	var empty *heap.Object
	return &heap.Class{
		Name: Optional,
		Statics: map[string]heap.StaticMethod{
			"empty": func(h *heap.Heap, args []managed.Value) (managed.Value, error) {
				if empty == nil {
					o, err := h.Alloc(Optional, (*heap.Object)(nil))
					if err != nil {
						return managed.Value{}, err
					}
					empty = o
				}
				return h.Return(empty), nil
			},
			"of": func(h *heap.Heap, args []managed.Value) (managed.Value, error) {
				value, err := h.NonNullArg(args, 0, "Optional.of value")
				if err != nil {
					return managed.Value{}, err
				}
				o, err := h.Alloc(Optional, value)
				if err != nil {
					return managed.Value{}, err
				}
				return h.Return(o), nil
			},
		},
		Methods: map[string]heap.Method{
			"isPresent": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.BoolValue(self.State.(*heap.Object) != nil), nil
			},
			"isEmpty": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				return managed.BoolValue(self.State.(*heap.Object) == nil), nil
			},
			"get": func(h *heap.Heap, self *heap.Object, args []managed.Value) (managed.Value, error) {
				value := self.State.(*heap.Object)
				if value == nil {
					return managed.Value{}, heap.Throw(heap.NoSuchElementException, "No value present")
				}
				return h.Return(value), nil
			},
		},
	}
}
