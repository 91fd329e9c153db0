// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"fmt"
	"unicode/utf8"

	"github.com/felixzheng98/cedar-java/lib/managed"
)

// String wraps a java/lang/String together with its decoded contents.
// The zero String wraps the null reference; constructors that accept
// an optional String pass it through as null.
type String struct {
	ref   managed.Ref
	value string
}

// NewString allocates a managed string holding value.
func NewString(scope *managed.Scope, value string) (String, error) {
	ref, err := scope.NewString(value)
	if err != nil {
		return String{}, managedCallError("allocating string", err)
	}
	return String{ref: ref, value: value}, nil
}

// CastString verifies that ref is a java/lang/String and decodes it.
func CastString(scope *managed.Scope, ref managed.Ref) (String, error) {
	return castChecked(scope, ref, ClassString, func() (String, error) {
		value, err := NativeString(scope, ref)
		if err != nil {
			return String{}, err
		}
		return String{ref: ref, value: value}, nil
	})
}

// NativeString reads the contents of a managed string. Non-UTF-8
// contents fail with KindStringDecode.
func NativeString(scope *managed.Scope, ref managed.Ref) (string, error) {
	data, err := scope.StringUTF(ref)
	if err != nil {
		return "", managedCallError("reading string", err)
	}
	if !utf8.Valid(data) {
		return "", &ConversionError{
			Kind:    KindStringDecode,
			Context: "reading string",
			Err:     fmt.Errorf("invalid UTF-8 in %d bytes", len(data)),
		}
	}
	return string(data), nil
}

// Ref implements Object.
func (s String) Ref() managed.Ref { return s.ref }

// Value returns the decoded contents.
func (s String) Value() string { return s.value }

// IsNull reports whether s wraps the null reference.
func (s String) IsNull() bool { return s.ref.IsNull() }

func (s String) String() string { return s.value }
