// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package classlib_test

import (
	"strings"
	"testing"

	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/managed/classlib"
	"github.com/felixzheng98/cedar-java/lib/managed/heap"
)

func newScope(t *testing.T) (*heap.Heap, *managed.Scope) {
	t.Helper()
	h := classlib.NewHeap()
	scope := managed.Enter(h)
	t.Cleanup(scope.Close)
	return h, scope
}

func mustString(t *testing.T, scope *managed.Scope, value string) managed.Ref {
	t.Helper()
	ref, err := scope.NewString(value)
	if err != nil {
		t.Fatalf("NewString(%q): %v", value, err)
	}
	return ref
}

func callObject(t *testing.T, scope *managed.Scope, ref managed.Ref, method string, args ...managed.Arg) managed.Ref {
	t.Helper()
	result, err := scope.Call(ref, method, args...)
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	out, err := result.Object()
	if err != nil {
		t.Fatalf("%s result: %v", method, err)
	}
	return out
}

func readString(t *testing.T, scope *managed.Scope, ref managed.Ref) string {
	t.Helper()
	data, err := scope.StringUTF(ref)
	if err != nil {
		t.Fatalf("StringUTF: %v", err)
	}
	return string(data)
}

func TestInstallTwiceFails(t *testing.T) {
	h := classlib.NewHeap()
	if err := classlib.Install(h); err == nil {
		t.Error("second Install succeeded")
	}
}

func TestArrayList(t *testing.T) {
	_, scope := newScope(t)

	list, err := scope.New(classlib.ArrayList)
	if err != nil {
		t.Fatalf("new ArrayList: %v", err)
	}
	for _, value := range []string{"a", "b"} {
		if _, err := scope.Call(list, "add", mustString(t, scope, value)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	result, err := scope.Call(list, "size")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size, _ := result.Int(); size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
	if got := readString(t, scope, callObject(t, scope, list, "get", managed.Int(1))); got != "b" {
		t.Errorf("get(1) = %q, want %q", got, "b")
	}

	_, err = scope.Call(list, "get", managed.Int(2))
	if !heap.IsException(err, heap.IndexOutOfBounds) {
		t.Errorf("get(2): got %v, want IndexOutOfBoundsException", err)
	}
}

func TestOptional(t *testing.T) {
	_, scope := newScope(t)

	emptyResult, err := scope.CallStatic(classlib.Optional, "empty")
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	empty, _ := emptyResult.Object()
	againResult, err := scope.CallStatic(classlib.Optional, "empty")
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	again, _ := againResult.Object()
	if same, _ := scope.IsSameObject(empty, again); !same {
		t.Error("Optional.empty() returned distinct instances")
	}

	present, _ := scope.Call(empty, "isPresent")
	if value, _ := present.Bool(); value {
		t.Error("empty optional reports present")
	}
	if _, err := scope.Call(empty, "get"); !heap.IsException(err, heap.NoSuchElementException) {
		t.Errorf("get on empty: got %v, want NoSuchElementException", err)
	}

	if _, err := scope.CallStatic(classlib.Optional, "of", managed.Null()); !heap.IsException(err, heap.NullPointerException) {
		t.Errorf("of(null): got %v, want NullPointerException", err)
	}

	ofResult, err := scope.CallStatic(classlib.Optional, "of", mustString(t, scope, "inner"))
	if err != nil {
		t.Fatalf("of: %v", err)
	}
	full, _ := ofResult.Object()
	present, _ = scope.Call(full, "isPresent")
	if value, _ := present.Bool(); !value {
		t.Error("Optional.of(x) reports empty")
	}
	if got := readString(t, scope, callObject(t, scope, full, "get")); got != "inner" {
		t.Errorf("get = %q, want %q", got, "inner")
	}

	if _, err := scope.New(classlib.Optional); !heap.IsException(err, heap.InstantiationException) {
		t.Errorf("new Optional: got %v, want InstantiationException", err)
	}
}

func TestEntityUIDConstructorChecksClasses(t *testing.T) {
	_, scope := newScope(t)

	namespace, err := scope.New(classlib.ArrayList)
	if err != nil {
		t.Fatalf("new ArrayList: %v", err)
	}
	typeName, err := scope.New(classlib.EntityTypeName, namespace, mustString(t, scope, "User"))
	if err != nil {
		t.Fatalf("new EntityTypeName: %v", err)
	}
	id, err := scope.New(classlib.EntityIdentifier, mustString(t, scope, "alice"))
	if err != nil {
		t.Fatalf("new EntityIdentifier: %v", err)
	}

	uid, err := scope.New(classlib.EntityUID, typeName, id)
	if err != nil {
		t.Fatalf("new EntityUID: %v", err)
	}
	gotType := callObject(t, scope, uid, "getType")
	if same, _ := scope.IsSameObject(gotType, typeName); !same {
		t.Error("getType did not return the constructor argument")
	}
	gotID := callObject(t, scope, uid, "getId")
	if got := readString(t, scope, callObject(t, scope, gotID, "getId")); got != "alice" {
		t.Errorf("id = %q, want %q", got, "alice")
	}

	// Arguments swapped.
	if _, err := scope.New(classlib.EntityUID, id, typeName); !heap.IsException(err, heap.ClassCastException) {
		t.Errorf("swapped arguments: got %v, want ClassCastException", err)
	}
	if _, err := scope.New(classlib.EntityUID, typeName, managed.Null()); !heap.IsException(err, heap.NullPointerException) {
		t.Errorf("null id: got %v, want NullPointerException", err)
	}
}

func TestPolicyConstructor(t *testing.T) {
	_, scope := newScope(t)
	source := `permit(principal, action, resource);`

	if _, err := scope.New(classlib.Policy, managed.Null(), managed.Null()); !heap.IsException(err, heap.NullPointerException) {
		t.Errorf("null source: got %v, want NullPointerException", err)
	}

	var ids []string
	for range 2 {
		policy, err := scope.New(classlib.Policy, mustString(t, scope, source), managed.Null())
		if err != nil {
			t.Fatalf("new Policy: %v", err)
		}
		ids = append(ids, readString(t, scope, callObject(t, scope, policy, "getID")))
		if got := readString(t, scope, callObject(t, scope, policy, "getSource")); got != source {
			t.Errorf("getSource = %q, want %q", got, source)
		}
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, "policy") {
			t.Errorf("generated id %q lacks the policy prefix", id)
		}
	}
	if ids[0] == ids[1] {
		t.Errorf("generated ids collide: %q", ids[0])
	}

	named, err := scope.New(classlib.Policy, mustString(t, scope, source), mustString(t, scope, "p7"))
	if err != nil {
		t.Fatalf("new Policy: %v", err)
	}
	if got := readString(t, scope, callObject(t, scope, named, "getID")); got != "p7" {
		t.Errorf("getID = %q, want %q", got, "p7")
	}
}

func TestPolicyIDsDistinctAcrossHeaps(t *testing.T) {
	source := `permit(principal, action, resource);`
	seen := make(map[string]bool)
	for range 3 {
		_, scope := newScope(t)
		policy, err := scope.New(classlib.Policy, mustString(t, scope, source), managed.Null())
		if err != nil {
			t.Fatalf("new Policy: %v", err)
		}
		id := readString(t, scope, callObject(t, scope, policy, "getID"))
		if seen[id] {
			t.Errorf("generated id %q reused by a later heap", id)
		}
		seen[id] = true
	}
}

func TestFormatterConfig(t *testing.T) {
	_, scope := newScope(t)

	config, err := scope.New(classlib.FormatterConfig, managed.Int(100), managed.Int(4))
	if err != nil {
		t.Fatalf("new Config: %v", err)
	}
	for method, want := range map[string]int32{"getLineWidth": 100, "getIndentWidth": 4} {
		result, err := scope.Call(config, method)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		got, err := result.Int()
		if err != nil {
			t.Fatalf("%s result: %v", method, err)
		}
		if got != want {
			t.Errorf("%s = %d, want %d", method, got, want)
		}
	}
}
