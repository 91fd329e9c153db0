// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"errors"

	"github.com/felixzheng98/cedar-java/lib/managed"
)

// Object is a typed wrapper around a managed reference.
type Object interface {
	// Ref returns the wrapped reference, for passing the object back
	// across the boundary.
	Ref() managed.Ref
}

// CastFunc upgrades an untyped reference to a typed wrapper, verifying
// the object's runtime class before reading any of its fields.
type CastFunc[T Object] func(scope *managed.Scope, ref managed.Ref) (T, error)

// Cast applies cast to ref. It exists so generic code (lists,
// optionals) can be handed any wrapper's cast function.
func Cast[T Object](scope *managed.Scope, ref managed.Ref, cast CastFunc[T]) (T, error) {
	return cast(scope, ref)
}

// AssertClass fails with an identity mismatch unless ref is a non-null
// instance of exactly class. Subclasses do not match.
func AssertClass(scope *managed.Scope, ref managed.Ref, class string) error {
	if ref.IsNull() {
		return identityMismatch(class, "null")
	}
	actual, err := scope.ClassName(ref)
	if err != nil {
		return managedCallError("reading runtime class", err)
	}
	if actual != class {
		return identityMismatch(class, actual)
	}
	return nil
}

// castChecked runs AssertClass and then decode. decode is never
// called on a mismatched object.
func castChecked[T Object](scope *managed.Scope, ref managed.Ref, class string, decode func() (T, error)) (T, error) {
	if err := AssertClass(scope, ref, class); err != nil {
		var zero T
		return zero, err
	}
	return decode()
}

// callObject invokes a method that returns a non-null object.
func callObject(scope *managed.Scope, ref managed.Ref, method string, args ...managed.Arg) (managed.Ref, error) {
	result, err := scope.Call(ref, method, args...)
	if err != nil {
		return managed.Ref{}, managedCallError(method, err)
	}
	out, err := result.Object()
	if err != nil {
		return managed.Ref{}, managedCallError(method, err)
	}
	if out.IsNull() {
		return managed.Ref{}, managedCallError(method, managed.ErrNullReference)
	}
	return out, nil
}

// callInt invokes a method that returns an int primitive.
func callInt(scope *managed.Scope, ref managed.Ref, method string, args ...managed.Arg) (int32, error) {
	result, err := scope.Call(ref, method, args...)
	if err != nil {
		return 0, managedCallError(method, err)
	}
	value, err := result.Int()
	if err != nil {
		return 0, managedCallError(method, err)
	}
	return value, nil
}

// callBool invokes a method that returns a boolean primitive.
func callBool(scope *managed.Scope, ref managed.Ref, method string, args ...managed.Arg) (bool, error) {
	result, err := scope.Call(ref, method, args...)
	if err != nil {
		return false, managedCallError(method, err)
	}
	value, err := result.Bool()
	if err != nil {
		return false, managedCallError(method, err)
	}
	return value, nil
}

// callStaticObject invokes a static factory that returns a non-null
// object.
func callStaticObject(scope *managed.Scope, class, method string, args ...managed.Arg) (managed.Ref, error) {
	result, err := scope.CallStatic(class, method, args...)
	if err != nil {
		return managed.Ref{}, managedCallError(class+"::"+method, err)
	}
	out, err := result.Object()
	if err != nil {
		return managed.Ref{}, managedCallError(class+"::"+method, err)
	}
	if out.IsNull() {
		return managed.Ref{}, managedCallError(class+"::"+method, managed.ErrNullReference)
	}
	return out, nil
}

// newObject allocates an instance of class.
func newObject(scope *managed.Scope, class string, args ...managed.Arg) (managed.Ref, error) {
	ref, err := scope.New(class, args...)
	if err != nil {
		return managed.Ref{}, managedCallError("constructing "+class, err)
	}
	if ref.IsNull() {
		return managed.Ref{}, managedCallError("constructing "+class, errors.New("constructor returned null"))
	}
	return ref, nil
}
