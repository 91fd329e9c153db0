// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"fmt"

	"github.com/felixzheng98/cedar-java/lib/managed"
)

// List is a managed java/util/List whose elements are T. The element
// type is a native-side promise; the managed list is not checked.
type List[T Object] struct {
	ref managed.Ref
}

// NewList allocates an empty java/util/ArrayList.
func NewList[T Object](scope *managed.Scope) (List[T], error) {
	ref, err := newObject(scope, ClassArrayList)
	if err != nil {
		return List[T]{}, err
	}
	return List[T]{ref: ref}, nil
}

// CastListUnchecked wraps ref as a list without checking its class.
// Any java/util/List implementation is accepted, so there is no single
// class name to compare against; misuse surfaces as a managed call
// failure on first access.
func CastListUnchecked[T Object](ref managed.Ref) List[T] {
	return List[T]{ref: ref}
}

// Ref implements Object.
func (l List[T]) Ref() managed.Ref { return l.ref }

// Add appends item.
func (l List[T]) Add(scope *managed.Scope, item T) error {
	if _, err := scope.Call(l.ref, "add", item.Ref()); err != nil {
		return managedCallError("List.add", err)
	}
	return nil
}

// Size returns the number of elements.
func (l List[T]) Size(scope *managed.Scope) (int, error) {
	size, err := callInt(scope, l.ref, "size")
	if err != nil {
		return 0, err
	}
	return int(size), nil
}

// Get casts the element at index with cast.
func (l List[T]) Get(scope *managed.Scope, index int, cast CastFunc[T]) (T, error) {
	var zero T
	result, err := scope.Call(l.ref, "get", managed.Int(index))
	if err != nil {
		return zero, managedCallError("List.get", err)
	}
	element, err := result.Object()
	if err != nil {
		return zero, managedCallError("List.get", err)
	}
	return Cast(scope, element, cast)
}

// Items casts every element in order.
func (l List[T]) Items(scope *managed.Scope, cast CastFunc[T]) ([]T, error) {
	size, err := l.Size(scope)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, size)
	for i := range size {
		item, err := l.Get(scope, i, cast)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// NewStringList allocates a list holding a managed string for each of
// values, in order.
func NewStringList(scope *managed.Scope, values []string) (List[String], error) {
	list, err := NewList[String](scope)
	if err != nil {
		return List[String]{}, err
	}
	for _, value := range values {
		item, err := NewString(scope, value)
		if err != nil {
			return List[String]{}, err
		}
		if err := list.Add(scope, item); err != nil {
			return List[String]{}, err
		}
	}
	return list, nil
}

// NativeStrings reads a managed list of strings into a Go slice. An
// element that is not a java/lang/String fails with an identity
// mismatch.
func NativeStrings(scope *managed.Scope, ref managed.Ref) ([]string, error) {
	items, err := CastListUnchecked[String](ref).Items(scope, CastString)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(items))
	for i, item := range items {
		values[i] = item.Value()
	}
	return values, nil
}
