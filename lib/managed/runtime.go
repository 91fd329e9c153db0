// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package managed

import "fmt"

// Handle is an opaque reference to an object in the managed heap. The
// zero Handle is the managed null reference.
type Handle uint64

// NullHandle is the managed null reference.
const NullHandle Handle = 0

// Kind identifies which variant a [Value] carries.
type Kind uint8

const (
	// KindVoid is the result of a method that returns nothing.
	KindVoid Kind = iota
	// KindObject is an object reference (possibly null).
	KindObject
	// KindInt is a 32-bit signed integer primitive.
	KindInt
	// KindBool is a boolean primitive.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindObject:
		return "object"
	case KindInt:
		return "int"
	case KindBool:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an argument to or a result from a managed call. It is the
// raw, runtime-level form; native code sees results through [Result].
type Value struct {
	kind   Kind
	handle Handle
	number int64
}

// Void returns the empty result of a void method.
func Void() Value { return Value{kind: KindVoid} }

// ObjectValue wraps an object handle.
func ObjectValue(h Handle) Value { return Value{kind: KindObject, handle: h} }

// IntValue wraps an int primitive.
func IntValue(i int32) Value { return Value{kind: KindInt, number: int64(i)} }

// BoolValue wraps a boolean primitive.
func BoolValue(b bool) Value {
	if b {
		return Value{kind: KindBool, number: 1}
	}
	return Value{kind: KindBool}
}

// Kind returns the variant carried by v.
func (v Value) Kind() Kind { return v.kind }

// Handle returns the object handle. Only meaningful for KindObject.
func (v Value) Handle() Handle { return v.handle }

// Int returns the int primitive. Only meaningful for KindInt.
func (v Value) Int() int32 { return int32(v.number) }

// Bool returns the boolean primitive. Only meaningful for KindBool.
func (v Value) Bool() bool { return v.number != 0 }

func (v Value) String() string {
	switch v.kind {
	case KindObject:
		if v.handle == NullHandle {
			return "null"
		}
		return fmt.Sprintf("object#%d", v.handle)
	case KindInt:
		return fmt.Sprintf("int(%d)", v.number)
	case KindBool:
		return fmt.Sprintf("boolean(%t)", v.number != 0)
	default:
		return "void"
	}
}

// Runtime is the call surface of a managed runtime. Class names are
// fully qualified and slash-separated ("java/util/Optional").
//
// Every method that can run managed code returns the runtime's own
// error value when that code raises; [Scope] wraps those into
// [*CallError]. Implementations may assume a single caller at a time.
type Runtime interface {
	// ClassName returns the exact runtime class of the object.
	ClassName(h Handle) (string, error)

	// NewObject allocates an instance of class by running its
	// constructor with args. The returned handle is a new local
	// reference owned by the caller.
	NewObject(class string, args ...Value) (Handle, error)

	// CallMethod invokes an instance method on h. Object results are
	// new local references owned by the caller.
	CallMethod(h Handle, method string, args ...Value) (Value, error)

	// CallStatic invokes a static method of class.
	CallStatic(class, method string, args ...Value) (Value, error)

	// NewString allocates a managed string holding s.
	NewString(s string) (Handle, error)

	// StringUTF returns the raw UTF-8 bytes of a managed string. The
	// bytes are not guaranteed to be valid UTF-8; decoding is the
	// caller's responsibility.
	StringUTF(h Handle) ([]byte, error)

	// IsSameObject reports whether two handles refer to the same
	// managed object.
	IsSameObject(a, b Handle) bool

	// DeleteLocal releases a local reference. Releasing the null
	// handle is a no-op.
	DeleteLocal(h Handle)
}
