// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import "github.com/felixzheng98/cedar-java/lib/managed"

// Optional is a managed java/util/Optional holding a T or nothing.
// It only ever wraps the result of Optional.empty() or Optional.of();
// absence is never represented by a null reference.
type Optional[T Object] struct {
	ref managed.Ref
}

// EmptyOptional returns the managed empty optional.
func EmptyOptional[T Object](scope *managed.Scope) (Optional[T], error) {
	ref, err := callStaticObject(scope, ClassOptional, "empty")
	if err != nil {
		return Optional[T]{}, err
	}
	return Optional[T]{ref: ref}, nil
}

// OptionalOf returns a managed optional holding value.
func OptionalOf[T Object](scope *managed.Scope, value T) (Optional[T], error) {
	ref, err := callStaticObject(scope, ClassOptional, "of", value.Ref())
	if err != nil {
		return Optional[T]{}, err
	}
	return Optional[T]{ref: ref}, nil
}

// OptionalFromNative returns OptionalOf(value) when ok is true and
// EmptyOptional otherwise.
func OptionalFromNative[T Object](scope *managed.Scope, value T, ok bool) (Optional[T], error) {
	if ok {
		return OptionalOf(scope, value)
	}
	return EmptyOptional[T](scope)
}

// CastOptional verifies that ref is a java/util/Optional. The contained
// value is not inspected until Get.
func CastOptional[T Object](scope *managed.Scope, ref managed.Ref) (Optional[T], error) {
	return castChecked(scope, ref, ClassOptional, func() (Optional[T], error) {
		return Optional[T]{ref: ref}, nil
	})
}

// Ref implements Object.
func (o Optional[T]) Ref() managed.Ref { return o.ref }

// IsPresent asks the managed optional whether it holds a value.
func (o Optional[T]) IsPresent(scope *managed.Scope) (bool, error) {
	return callBool(scope, o.ref, "isPresent")
}

// Get returns the contained value cast with cast. ok is false for an
// empty optional.
func (o Optional[T]) Get(scope *managed.Scope, cast CastFunc[T]) (value T, ok bool, err error) {
	present, err := o.IsPresent(scope)
	if err != nil || !present {
		return value, false, err
	}
	ref, err := callObject(scope, o.ref, "get")
	if err != nil {
		return value, false, err
	}
	value, err = Cast(scope, ref, cast)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}
