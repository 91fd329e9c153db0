// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package managed_test

import (
	"errors"
	"testing"

	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/managed/heap"
)

func TestScopeReleasesLocalsOnClose(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)

	for _, value := range []string{"a", "b", "c"} {
		if _, err := scope.NewString(value); err != nil {
			t.Fatalf("NewString(%q): %v", value, err)
		}
	}
	if got := scope.LocalCount(); got != 3 {
		t.Errorf("LocalCount = %d, want 3", got)
	}
	if got := h.LiveLocals(); got != 3 {
		t.Errorf("heap LiveLocals = %d, want 3", got)
	}

	scope.Close()
	if !scope.Closed() {
		t.Error("Closed() = false after Close")
	}
	if got := h.LiveLocals(); got != 0 {
		t.Errorf("heap LiveLocals after Close = %d, want 0", got)
	}

	// Second Close is a no-op.
	scope.Close()
}

func TestRefUnusableAfterClose(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	ref, err := scope.NewString("hello")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	scope.Close()

	if _, err := scope.ClassName(ref); !errors.Is(err, managed.ErrScopeClosed) {
		t.Errorf("ClassName after Close: got %v, want ErrScopeClosed", err)
	}
	if _, err := scope.Call(ref, "length"); !errors.Is(err, managed.ErrScopeClosed) {
		t.Errorf("Call after Close: got %v, want ErrScopeClosed", err)
	}
	if _, err := scope.NewString("x"); !errors.Is(err, managed.ErrScopeClosed) {
		t.Errorf("NewString after Close: got %v, want ErrScopeClosed", err)
	}

	// A ref from a closed scope presented to a live scope reports the
	// closed scope rather than a generic foreign reference.
	other := managed.Enter(h)
	defer other.Close()
	if _, err := other.ClassName(ref); !errors.Is(err, managed.ErrScopeClosed) {
		t.Errorf("ClassName in other scope: got %v, want ErrScopeClosed", err)
	}
}

func TestForeignReferenceRejected(t *testing.T) {
	h := heap.New()
	first := managed.Enter(h)
	defer first.Close()
	second := managed.Enter(h)
	defer second.Close()

	ref, err := first.NewString("owned by first")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if _, err := second.ClassName(ref); !errors.Is(err, managed.ErrForeignReference) {
		t.Errorf("ClassName: got %v, want ErrForeignReference", err)
	}
	if _, err := second.StringUTF(ref); !errors.Is(err, managed.ErrForeignReference) {
		t.Errorf("StringUTF: got %v, want ErrForeignReference", err)
	}
}

func TestNullReference(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	defer scope.Close()

	null := managed.Null()
	if !null.IsNull() {
		t.Fatal("Null().IsNull() = false")
	}
	if null.String() != "null" {
		t.Errorf("Null().String() = %q, want %q", null.String(), "null")
	}
	if _, err := scope.ClassName(null); !errors.Is(err, managed.ErrNullReference) {
		t.Errorf("ClassName(null): got %v, want ErrNullReference", err)
	}

	_, err := scope.Call(null, "length")
	var callErr *managed.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("Call on null: got %v, want *CallError", err)
	}
	if !errors.Is(err, managed.ErrNullReference) {
		t.Errorf("Call on null: got %v, want wrapping ErrNullReference", err)
	}

	same, err := scope.IsSameObject(null, managed.Null())
	if err != nil {
		t.Fatalf("IsSameObject: %v", err)
	}
	if !same {
		t.Error("two null references should be the same object")
	}
}

func TestIsSameObject(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	defer scope.Close()

	a, err := scope.NewString("x")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	b, err := scope.NewString("x")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	result, err := scope.Call(a, "toString")
	if err != nil {
		t.Fatalf("toString: %v", err)
	}
	aAgain, err := result.Object()
	if err != nil {
		t.Fatalf("Object: %v", err)
	}

	tests := []struct {
		name string
		x, y managed.Ref
		want bool
	}{
		{"same local", a, a, true},
		{"two locals to one object", a, aAgain, true},
		{"distinct objects with equal contents", a, b, false},
		{"object and null", a, managed.Null(), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := scope.IsSameObject(test.x, test.y)
			if err != nil {
				t.Fatalf("IsSameObject: %v", err)
			}
			if got != test.want {
				t.Errorf("IsSameObject = %v, want %v", got, test.want)
			}
		})
	}
}

func TestResultKinds(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	defer scope.Close()

	ref, err := scope.NewString("héllo")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	result, err := scope.Call(ref, "length")
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if result.Kind() != managed.KindInt {
		t.Fatalf("Kind = %s, want int", result.Kind())
	}
	length, err := result.Int()
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if length != 5 {
		t.Errorf("length = %d, want 5", length)
	}

	_, err = result.Object()
	var kindErr *managed.ResultKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("Object on int result: got %v, want *ResultKindError", err)
	}
	if kindErr.Want != managed.KindObject || kindErr.Got != managed.KindInt {
		t.Errorf("ResultKindError = {%s, %s}, want {object, int}", kindErr.Want, kindErr.Got)
	}
	if _, err := result.Bool(); !errors.As(err, &kindErr) {
		t.Errorf("Bool on int result: got %v, want *ResultKindError", err)
	}
}

func TestCallErrorWrapsRuntimeException(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	defer scope.Close()

	ref, err := scope.NewString("x")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	_, err = scope.Call(ref, "noSuchMethod")
	var callErr *managed.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("got %v, want *CallError", err)
	}
	if callErr.Class != heap.ClassString || callErr.Method != "noSuchMethod" {
		t.Errorf("CallError = %+v, want class %s method noSuchMethod", callErr, heap.ClassString)
	}
	if !heap.IsException(err, heap.NoSuchMethodError) {
		t.Errorf("error %v does not carry NoSuchMethodError", err)
	}

	_, err = scope.New("com/example/Missing")
	if !heap.IsException(err, heap.NoClassDefFoundError) {
		t.Errorf("New of undefined class: got %v, want NoClassDefFoundError", err)
	}
}

func TestStringUTF(t *testing.T) {
	h := heap.New()
	scope := managed.Enter(h)
	defer scope.Close()

	for _, value := range []string{"", "ascii", "日本語", "emoji \U0001F600"} {
		ref, err := scope.NewString(value)
		if err != nil {
			t.Fatalf("NewString(%q): %v", value, err)
		}
		data, err := scope.StringUTF(ref)
		if err != nil {
			t.Fatalf("StringUTF(%q): %v", value, err)
		}
		if string(data) != value {
			t.Errorf("StringUTF = %q, want %q", data, value)
		}
	}
}
