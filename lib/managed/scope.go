// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package managed

import (
	"fmt"
	"sync/atomic"
)

// scopeCounter gives each scope a distinct id for diagnostics.
var scopeCounter atomic.Uint64

// Scope is the native side of one boundary call. It hands out [Ref]
// values, tracks every local reference it receives, and releases them
// all on Close.
type Scope struct {
	runtime Runtime
	id      uint64
	locals  []Handle
	closed  bool
}

// Enter opens a scope against rt. The caller must Close it when the
// boundary call returns.
func Enter(rt Runtime) *Scope {
	return &Scope{
		runtime: rt,
		id:      scopeCounter.Add(1),
	}
}

// Close releases every local reference created in this scope. Refs
// obtained from the scope are unusable afterwards. Closing twice is a
// no-op.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.locals) - 1; i >= 0; i-- {
		s.runtime.DeleteLocal(s.locals[i])
	}
	s.locals = nil
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool { return s.closed }

// LocalCount returns the number of live local references the scope
// currently owns.
func (s *Scope) LocalCount() int { return len(s.locals) }

func (s *Scope) String() string { return fmt.Sprintf("scope#%d", s.id) }

// Ref is a borrowed reference to a managed object, valid only through
// the scope that produced it and only until that scope closes. The
// zero Ref is the managed null reference and is accepted by every
// scope.
type Ref struct {
	scope  *Scope
	handle Handle
}

// Null returns the managed null reference.
func Null() Ref { return Ref{} }

// IsNull reports whether r is the managed null reference.
func (r Ref) IsNull() bool { return r.handle == NullHandle }

// Handle returns the raw handle. Intended for runtime implementations
// and diagnostics; native code should pass Refs, not handles.
func (r Ref) Handle() Handle { return r.handle }

// Scope returns the scope that produced r, or nil for the null Ref.
func (r Ref) Scope() *Scope { return r.scope }

func (r Ref) String() string {
	if r.IsNull() {
		return "null"
	}
	return fmt.Sprintf("ref#%d@%s", r.handle, r.scope)
}

func (Ref) managedArg() {}

// Arg is an argument to a managed call: a [Ref], an [Int], or a
// [Bool].
type Arg interface {
	managedArg()
}

// Int is an int primitive argument.
type Int int32

func (Int) managedArg() {}

// Bool is a boolean primitive argument.
type Bool bool

func (Bool) managedArg() {}

// Result is the outcome of a managed call, bound to the scope that
// made the call.
type Result struct {
	scope *Scope
	value Value
}

// Kind returns the variant the result carries.
func (r Result) Kind() Kind { return r.value.kind }

// Object returns the result as an object reference. Fails if the
// result is not an object. A null object result is returned as the
// null Ref without error; callers that require non-null must check.
func (r Result) Object() (Ref, error) {
	if r.value.kind != KindObject {
		return Ref{}, &ResultKindError{Want: KindObject, Got: r.value.kind}
	}
	if r.value.handle == NullHandle {
		return Ref{}, nil
	}
	return Ref{scope: r.scope, handle: r.value.handle}, nil
}

// Int returns the result as an int primitive.
func (r Result) Int() (int32, error) {
	if r.value.kind != KindInt {
		return 0, &ResultKindError{Want: KindInt, Got: r.value.kind}
	}
	return r.value.Int(), nil
}

// Bool returns the result as a boolean primitive.
func (r Result) Bool() (bool, error) {
	if r.value.kind != KindBool {
		return false, &ResultKindError{Want: KindBool, Got: r.value.kind}
	}
	return r.value.Bool(), nil
}

// check verifies that the scope is open and r belongs to it.
func (s *Scope) check(r Ref) error {
	if s.closed {
		return ErrScopeClosed
	}
	if r.handle == NullHandle {
		return nil
	}
	if r.scope != s {
		if r.scope != nil && r.scope.closed {
			return ErrScopeClosed
		}
		return ErrForeignReference
	}
	return nil
}

// values converts native arguments into runtime values, verifying
// every reference argument.
func (s *Scope) values(args []Arg) ([]Value, error) {
	out := make([]Value, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case Ref:
			if err := s.check(a); err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = ObjectValue(a.handle)
		case Int:
			out[i] = IntValue(int32(a))
		case Bool:
			out[i] = BoolValue(bool(a))
		default:
			return nil, fmt.Errorf("argument %d: unsupported type %T", i, arg)
		}
	}
	return out, nil
}

// adopt records an object handle returned by the runtime as a local of
// this scope.
func (s *Scope) adopt(h Handle) Ref {
	if h == NullHandle {
		return Ref{}
	}
	s.locals = append(s.locals, h)
	return Ref{scope: s, handle: h}
}

func (s *Scope) result(v Value) Result {
	if v.kind == KindObject && v.handle != NullHandle {
		s.locals = append(s.locals, v.handle)
	}
	return Result{scope: s, value: v}
}

// ClassName returns the exact runtime class of r. The null reference
// has no class and yields ErrNullReference.
func (s *Scope) ClassName(r Ref) (string, error) {
	if err := s.check(r); err != nil {
		return "", err
	}
	if r.IsNull() {
		return "", ErrNullReference
	}
	name, err := s.runtime.ClassName(r.handle)
	if err != nil {
		return "", &CallError{Op: "class", Err: err}
	}
	return name, nil
}

// IsSameObject reports whether a and b refer to the same managed
// object. Two null references are the same object.
func (s *Scope) IsSameObject(a, b Ref) (bool, error) {
	if err := s.check(a); err != nil {
		return false, err
	}
	if err := s.check(b); err != nil {
		return false, err
	}
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull(), nil
	}
	return s.runtime.IsSameObject(a.handle, b.handle), nil
}

// New allocates an instance of class.
func (s *Scope) New(class string, args ...Arg) (Ref, error) {
	if s.closed {
		return Ref{}, ErrScopeClosed
	}
	values, err := s.values(args)
	if err != nil {
		return Ref{}, err
	}
	h, err := s.runtime.NewObject(class, values...)
	if err != nil {
		return Ref{}, &CallError{Op: "new", Class: class, Method: "<init>", Err: err}
	}
	return s.adopt(h), nil
}

// Call invokes an instance method on r.
func (s *Scope) Call(r Ref, method string, args ...Arg) (Result, error) {
	if err := s.check(r); err != nil {
		return Result{}, err
	}
	if r.IsNull() {
		return Result{}, &CallError{Op: "call", Method: method, Err: ErrNullReference}
	}
	values, err := s.values(args)
	if err != nil {
		return Result{}, err
	}
	v, err := s.runtime.CallMethod(r.handle, method, values...)
	if err != nil {
		class, _ := s.runtime.ClassName(r.handle)
		return Result{}, &CallError{Op: "call", Class: class, Method: method, Err: err}
	}
	return s.result(v), nil
}

// CallStatic invokes a static method of class.
func (s *Scope) CallStatic(class, method string, args ...Arg) (Result, error) {
	if s.closed {
		return Result{}, ErrScopeClosed
	}
	values, err := s.values(args)
	if err != nil {
		return Result{}, err
	}
	v, err := s.runtime.CallStatic(class, method, values...)
	if err != nil {
		return Result{}, &CallError{Op: "static", Class: class, Method: method, Err: err}
	}
	return s.result(v), nil
}

// NewString allocates a managed string.
func (s *Scope) NewString(value string) (Ref, error) {
	if s.closed {
		return Ref{}, ErrScopeClosed
	}
	h, err := s.runtime.NewString(value)
	if err != nil {
		return Ref{}, &CallError{Op: "string", Err: err}
	}
	return s.adopt(h), nil
}

// StringUTF returns the raw bytes of a managed string. The bytes are
// not validated.
func (s *Scope) StringUTF(r Ref) ([]byte, error) {
	if err := s.check(r); err != nil {
		return nil, err
	}
	if r.IsNull() {
		return nil, ErrNullReference
	}
	data, err := s.runtime.StringUTF(r.handle)
	if err != nil {
		return nil, &CallError{Op: "string", Err: err}
	}
	return data, nil
}
