// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package heap

import "errors"

// ClassString is the managed string class. It is always defined.
const ClassString = "java/lang/String"

// Exception classes raised by the heap and the class library.
const (
	NullPointerException     = "java/lang/NullPointerException"
	IllegalArgumentException = "java/lang/IllegalArgumentException"
	ClassCastException       = "java/lang/ClassCastException"
	IndexOutOfBounds         = "java/lang/IndexOutOfBoundsException"
	NoSuchElementException   = "java/util/NoSuchElementException"
	NoSuchMethodError        = "java/lang/NoSuchMethodError"
	NoClassDefFoundError     = "java/lang/NoClassDefFoundError"
	InstantiationException   = "java/lang/InstantiationException"
	UnsupportedOperation     = "java/lang/UnsupportedOperationException"
)

// Exception is a throwable raised by managed code.
type Exception struct {
	Class   string
	Message string
}

// Throw returns a new Exception of the given class.
func Throw(class, message string) *Exception {
	return &Exception{Class: class, Message: message}
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return e.Class + ": " + e.Message
}

// IsException reports whether err carries an Exception of the given
// class.
func IsException(err error, class string) bool {
	var exception *Exception
	return errors.As(err, &exception) && exception.Class == class
}
