// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package heap

import (
	"errors"
	"testing"

	"github.com/felixzheng98/cedar-java/lib/managed"
)

func counterClass() *Class {
	return &Class{
		Name: "test/Counter",
		Constructor: func(h *Heap, args []managed.Value) (any, error) {
			start, err := h.IntArg(args, 0)
			if err != nil {
				return nil, err
			}
			return &start, nil
		},
		Methods: map[string]Method{
			"next": func(h *Heap, self *Object, args []managed.Value) (managed.Value, error) {
				value := self.State.(*int32)
				*value++
				return managed.IntValue(*value), nil
			},
		},
		Statics: map[string]StaticMethod{
			"zero": func(h *Heap, args []managed.Value) (managed.Value, error) {
				return managed.IntValue(0), nil
			},
		},
	}
}

func TestDefineRejectsDuplicates(t *testing.T) {
	h := New()
	if err := h.Define(counterClass()); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := h.Define(counterClass()); err == nil {
		t.Error("second Define of the same class succeeded")
	}
	if err := h.Define(&Class{Name: ClassString}); err == nil {
		t.Error("redefining java/lang/String succeeded")
	}
	if err := h.Define(&Class{}); err == nil {
		t.Error("Define with empty name succeeded")
	}
}

func TestNewObjectAndCallLog(t *testing.T) {
	h := New()
	if err := h.Define(counterClass()); err != nil {
		t.Fatalf("Define: %v", err)
	}

	handle, err := h.NewObject("test/Counter", managed.IntValue(41))
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	value, err := h.CallMethod(handle, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if value.Kind() != managed.KindInt || value.Int() != 42 {
		t.Errorf("next = %s, want int 42", value)
	}
	if _, err := h.CallStatic("test/Counter", "zero"); err != nil {
		t.Fatalf("zero: %v", err)
	}

	want := []Call{
		{Class: "test/Counter", Method: "<init>"},
		{Class: "test/Counter", Method: "next"},
		{Class: "test/Counter", Method: "zero", Static: true},
	}
	got := h.Calls()
	if len(got) != len(want) {
		t.Fatalf("Calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Calls[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	h.ResetCalls()
	if len(h.Calls()) != 0 {
		t.Errorf("Calls after ResetCalls = %v, want empty", h.Calls())
	}
}

func TestRuntimeExceptions(t *testing.T) {
	h := New()
	if err := h.Define(counterClass()); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := h.Define(&Class{Name: "test/Abstract"}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	str, _ := h.NewString("x")

	tests := []struct {
		name  string
		call  func() error
		class string
	}{
		{"undefined class", func() error {
			_, err := h.NewObject("test/Missing")
			return err
		}, NoClassDefFoundError},
		{"no constructor", func() error {
			_, err := h.NewObject("test/Abstract")
			return err
		}, InstantiationException},
		{"constructor argument kind", func() error {
			_, err := h.NewObject("test/Counter", managed.BoolValue(true))
			return err
		}, IllegalArgumentException},
		{"missing method", func() error {
			_, err := h.CallMethod(str, "charAt")
			return err
		}, NoSuchMethodError},
		{"method on null", func() error {
			_, err := h.CallMethod(managed.NullHandle, "length")
			return err
		}, NullPointerException},
		{"missing static", func() error {
			_, err := h.CallStatic("test/Counter", "one")
			return err
		}, NoSuchMethodError},
		{"class of null", func() error {
			_, err := h.ClassName(managed.NullHandle)
			return err
		}, NullPointerException},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.call()
			if !IsException(err, test.class) {
				t.Errorf("got %v, want %s", err, test.class)
			}
		})
	}
}

func TestStringUTFRejectsNonString(t *testing.T) {
	h := New()
	if err := h.Define(counterClass()); err != nil {
		t.Fatalf("Define: %v", err)
	}
	handle, err := h.NewObject("test/Counter", managed.IntValue(0))
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if _, err := h.StringUTF(handle); !IsException(err, ClassCastException) {
		t.Errorf("StringUTF on counter: got %v, want ClassCastException", err)
	}
}

func TestLocalsAndRelease(t *testing.T) {
	h := New()
	a, _ := h.NewString("a")
	b := h.Local(mustDeref(t, h, a))

	if a == b {
		t.Fatal("second local reference reused the first handle")
	}
	if !h.IsSameObject(a, b) {
		t.Error("two locals to one object are not the same object")
	}
	if h.LiveLocals() != 2 {
		t.Errorf("LiveLocals = %d, want 2", h.LiveLocals())
	}

	h.DeleteLocal(a)
	if _, err := h.Deref(a); err == nil {
		t.Error("Deref of released handle succeeded")
	}
	if h.IsSameObject(a, b) {
		t.Error("IsSameObject with a released handle reported true")
	}
	if h.Local(nil) != managed.NullHandle {
		t.Error("Local(nil) did not return the null handle")
	}
}

func TestIsException(t *testing.T) {
	err := Throw(ClassCastException, "boom")
	if err.Error() != ClassCastException+": boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	wrapped := &managed.CallError{Op: "call", Err: err}
	if !IsException(wrapped, ClassCastException) {
		t.Error("IsException did not see through CallError")
	}
	if IsException(wrapped, NullPointerException) {
		t.Error("IsException matched the wrong class")
	}
	if IsException(errors.New("plain"), ClassCastException) {
		t.Error("IsException matched a non-exception error")
	}
}

func mustDeref(t *testing.T, h *Heap, handle managed.Handle) *Object {
	t.Helper()
	o, err := h.Deref(handle)
	if err != nil {
		t.Fatalf("Deref(%d): %v", handle, err)
	}
	return o
}
