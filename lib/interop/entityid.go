// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/managed"
)

// EntityIdentifier wraps a com/cedarpolicy/value/EntityIdentifier and
// its id.
type EntityIdentifier struct {
	ref    managed.Ref
	native cedar.EntityID
}

// NewEntityIdentifier allocates an identifier from raw. Any string is
// a valid identifier, so only managed call failures are possible.
func NewEntityIdentifier(scope *managed.Scope, raw String) (EntityIdentifier, error) {
	ref, err := newObject(scope, ClassEntityIdentifier, raw.Ref())
	if err != nil {
		return EntityIdentifier{}, err
	}
	return EntityIdentifier{ref: ref, native: cedar.NewEntityID(raw.Value())}, nil
}

// EntityIdentifierFromNative allocates the managed form of id.
func EntityIdentifierFromNative(scope *managed.Scope, id cedar.EntityID) (EntityIdentifier, error) {
	raw, err := NewString(scope, id.String())
	if err != nil {
		return EntityIdentifier{}, err
	}
	return NewEntityIdentifier(scope, raw)
}

// CastEntityIdentifier verifies ref's class and reads getId.
func CastEntityIdentifier(scope *managed.Scope, ref managed.Ref) (EntityIdentifier, error) {
	return castChecked(scope, ref, ClassEntityIdentifier, func() (EntityIdentifier, error) {
		idRef, err := callObject(scope, ref, "getId")
		if err != nil {
			return EntityIdentifier{}, err
		}
		raw, err := NativeString(scope, idRef)
		if err != nil {
			return EntityIdentifier{}, err
		}
		return EntityIdentifier{ref: ref, native: cedar.NewEntityID(raw)}, nil
	})
}

// Ref implements Object.
func (id EntityIdentifier) Ref() managed.Ref { return id.ref }

// Native returns the identifier.
func (id EntityIdentifier) Native() cedar.EntityID { return id.native }

// StringRepr returns the escaped form, which may differ from the raw
// id.
func (id EntityIdentifier) StringRepr() string { return id.native.Escaped() }

// ID calls the managed getId accessor.
func (id EntityIdentifier) ID(scope *managed.Scope) (String, error) {
	ref, err := callObject(scope, id.ref, "getId")
	if err != nil {
		return String{}, err
	}
	return CastString(scope, ref)
}
