// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import "github.com/felixzheng98/cedar-java/lib/managed"

// PolicyParser validates Cedar policy text. Implemented by
// policyengine.Engine.
type PolicyParser interface {
	// NormalizePolicy parses exactly one static policy and returns it
	// in canonical form.
	NormalizePolicy(source string) (string, error)
}

// Policy wraps a com/cedarpolicy/model/policy/Policy.
type Policy struct {
	ref managed.Ref
}

// NewPolicy allocates a policy from source text and an id. A zero
// (null) id lets the managed side assign one; a null source is
// rejected by the managed constructor.
func NewPolicy(scope *managed.Scope, source, id String) (Policy, error) {
	ref, err := newObject(scope, ClassPolicy, source.Ref(), id.Ref())
	if err != nil {
		return Policy{}, err
	}
	return Policy{ref: ref}, nil
}

// PolicyFromNative allocates a policy from Go strings. An empty id is
// passed as null.
func PolicyFromNative(scope *managed.Scope, source, id string) (Policy, error) {
	sourceString, err := NewString(scope, source)
	if err != nil {
		return Policy{}, err
	}
	var idString String
	if id != "" {
		idString, err = NewString(scope, id)
		if err != nil {
			return Policy{}, err
		}
	}
	return NewPolicy(scope, sourceString, idString)
}

// ParseStaticPolicy validates source with parser and allocates a
// policy holding the normalized text. Invalid policy text fails with
// KindParse.
func ParseStaticPolicy(scope *managed.Scope, parser PolicyParser, source, id string) (Policy, error) {
	normalized, err := parser.NormalizePolicy(source)
	if err != nil {
		return Policy{}, parseError("Policy", err)
	}
	return PolicyFromNative(scope, normalized, id)
}

// CastPolicy verifies ref's class. No accessor is called.
func CastPolicy(scope *managed.Scope, ref managed.Ref) (Policy, error) {
	return castChecked(scope, ref, ClassPolicy, func() (Policy, error) {
		return Policy{ref: ref}, nil
	})
}

// Ref implements Object.
func (p Policy) Ref() managed.Ref { return p.ref }

// Source calls getSource.
func (p Policy) Source(scope *managed.Scope) (string, error) {
	ref, err := callObject(scope, p.ref, "getSource")
	if err != nil {
		return "", err
	}
	return NativeString(scope, ref)
}

// ID calls getID.
func (p Policy) ID(scope *managed.Scope) (string, error) {
	ref, err := callObject(scope, p.ref, "getID")
	if err != nil {
		return "", err
	}
	return NativeString(scope, ref)
}
