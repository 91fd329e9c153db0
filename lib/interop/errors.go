// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindManagedCall: the managed runtime failed or raised while a
	// constructor, method, or factory was being invoked. The runtime's
	// error is wrapped and must not be discarded.
	KindManagedCall Kind = iota + 1

	// KindStringDecode: string data crossing the boundary was not
	// valid UTF-8.
	KindStringDecode

	// KindIdentityMismatch: a reference's runtime class did not match
	// the class a cast expected. Always an integration error.
	KindIdentityMismatch

	// KindParse: native validation rejected decoded data.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindManagedCall:
		return "managed-call-failure"
	case KindStringDecode:
		return "string-decode-failure"
	case KindIdentityMismatch:
		return "identity-mismatch"
	case KindParse:
		return "parse-failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is against a *ConversionError of each kind.
var (
	ErrManagedCall      = errors.New("interop: managed call failed")
	ErrStringDecode     = errors.New("interop: string decode failed")
	ErrIdentityMismatch = errors.New("interop: class identity mismatch")
	ErrParse            = errors.New("interop: parse failed")
)

// ConversionError is the single error type returned by conversions.
type ConversionError struct {
	Kind Kind

	// Expected and Actual are the class names involved in an
	// identity mismatch. Actual is "null" for a null reference.
	Expected string
	Actual   string

	// Context says what was being converted, e.g. "EntityTypeName
	// namespace".
	Context string

	// Err is the underlying cause: the runtime's error for
	// KindManagedCall, the parser's error for KindParse.
	Err error
}

func (e *ConversionError) Error() string {
	if e.Kind == KindIdentityMismatch {
		return fmt.Sprintf("%s: expected %s, got %s", e.Kind, e.Expected, e.Actual)
	}
	message := e.Kind.String()
	if e.Context != "" {
		message += ": " + e.Context
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Is matches the sentinel for e's kind.
func (e *ConversionError) Is(target error) bool {
	switch target {
	case ErrManagedCall:
		return e.Kind == KindManagedCall
	case ErrStringDecode:
		return e.Kind == KindStringDecode
	case ErrIdentityMismatch:
		return e.Kind == KindIdentityMismatch
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

// KindOf returns the kind of the first *ConversionError in err's
// chain, or zero if there is none.
func KindOf(err error) Kind {
	var conversionErr *ConversionError
	if errors.As(err, &conversionErr) {
		return conversionErr.Kind
	}
	return 0
}

func managedCallError(context string, err error) error {
	var conversionErr *ConversionError
	if errors.As(err, &conversionErr) {
		return err
	}
	return &ConversionError{Kind: KindManagedCall, Context: context, Err: err}
}

func parseError(context string, err error) error {
	return &ConversionError{Kind: KindParse, Context: context, Err: err}
}

func identityMismatch(expected, actual string) error {
	return &ConversionError{Kind: KindIdentityMismatch, Expected: expected, Actual: actual}
}
