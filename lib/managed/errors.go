// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package managed

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeClosed is returned when a Ref is used after the scope
	// that produced it has been closed.
	ErrScopeClosed = errors.New("managed: scope is closed")

	// ErrForeignReference is returned when a Ref produced by one scope
	// is passed to another.
	ErrForeignReference = errors.New("managed: reference belongs to a different scope")

	// ErrNullReference is returned when an operation requires a
	// non-null object.
	ErrNullReference = errors.New("managed: null reference")
)

// ResultKindError is returned when a [Result] is read as a kind it
// does not carry (for example, reading an int from an object result).
type ResultKindError struct {
	Want Kind
	Got  Kind
}

func (e *ResultKindError) Error() string {
	return fmt.Sprintf("managed: expected %s result, got %s", e.Want, e.Got)
}

// CallError records a failure raised inside the managed runtime while
// native code was calling into it. Err is the runtime's own error
// value (for the in-process heap, a *heap.Exception).
type CallError struct {
	// Op is the kind of call: "new", "call", "static", "string",
	// or "class".
	Op string

	// Class is the class involved, when known.
	Class string

	// Method is the method or constructor signature involved, when
	// known.
	Method string

	Err error
}

func (e *CallError) Error() string {
	switch {
	case e.Method != "" && e.Class != "":
		return fmt.Sprintf("managed %s %s.%s: %v", e.Op, e.Class, e.Method, e.Err)
	case e.Method != "":
		return fmt.Sprintf("managed %s %s: %v", e.Op, e.Method, e.Err)
	case e.Class != "":
		return fmt.Sprintf("managed %s %s: %v", e.Op, e.Class, e.Err)
	default:
		return fmt.Sprintf("managed %s: %v", e.Op, e.Err)
	}
}

func (e *CallError) Unwrap() error { return e.Err }
