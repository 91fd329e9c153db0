// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/managed"
)

// EntityUID wraps a com/cedarpolicy/value/EntityUID. It carries no
// decoded fields: a cast only checks the class, and Decode reads the
// type and id on demand.
type EntityUID struct {
	ref managed.Ref
}

// NewEntityUID allocates a UID from two already validated parts.
func NewEntityUID(scope *managed.Scope, entityType EntityTypeName, id EntityIdentifier) (EntityUID, error) {
	ref, err := newObject(scope, ClassEntityUID, entityType.Ref(), id.Ref())
	if err != nil {
		return EntityUID{}, err
	}
	return EntityUID{ref: ref}, nil
}

// EntityUIDFromNative allocates the managed form of uid, building the
// type name and identifier through their own construction paths.
func EntityUIDFromNative(scope *managed.Scope, uid cedar.EntityUID) (EntityUID, error) {
	entityType, err := EntityTypeNameFromNative(scope, uid.Type())
	if err != nil {
		return EntityUID{}, err
	}
	id, err := EntityIdentifierFromNative(scope, uid.ID())
	if err != nil {
		return EntityUID{}, err
	}
	return NewEntityUID(scope, entityType, id)
}

// CastEntityUID verifies ref's class. No accessor is called.
func CastEntityUID(scope *managed.Scope, ref managed.Ref) (EntityUID, error) {
	return castChecked(scope, ref, ClassEntityUID, func() (EntityUID, error) {
		return EntityUID{ref: ref}, nil
	})
}

// ParseEntityUID parses source as `Type::"id"`. Malformed source
// yields an empty Optional, not an error.
func ParseEntityUID(scope *managed.Scope, source string) (Optional[EntityUID], error) {
	native, err := cedar.ParseEntityUID(source)
	if err != nil {
		return EmptyOptional[EntityUID](scope)
	}
	uid, err := EntityUIDFromNative(scope, native)
	if err != nil {
		return Optional[EntityUID]{}, err
	}
	return OptionalOf(scope, uid)
}

// Ref implements Object.
func (uid EntityUID) Ref() managed.Ref { return uid.ref }

// Type calls getType and casts the result.
func (uid EntityUID) Type(scope *managed.Scope) (EntityTypeName, error) {
	ref, err := callObject(scope, uid.ref, "getType")
	if err != nil {
		return EntityTypeName{}, err
	}
	return CastEntityTypeName(scope, ref)
}

// ID calls getId and casts the result.
func (uid EntityUID) ID(scope *managed.Scope) (EntityIdentifier, error) {
	ref, err := callObject(scope, uid.ref, "getId")
	if err != nil {
		return EntityIdentifier{}, err
	}
	return CastEntityIdentifier(scope, ref)
}

// Decode reads the type then the id and returns the validated native
// UID.
func (uid EntityUID) Decode(scope *managed.Scope) (cedar.EntityUID, error) {
	entityType, err := uid.Type(scope)
	if err != nil {
		return cedar.EntityUID{}, err
	}
	id, err := uid.ID(scope)
	if err != nil {
		return cedar.EntityUID{}, err
	}
	native, err := cedar.NewEntityUID(entityType.Native(), id.Native())
	if err != nil {
		return cedar.EntityUID{}, parseError("EntityUID", err)
	}
	return native, nil
}

// StringRepr decodes the UID and returns its canonical form.
func (uid EntityUID) StringRepr(scope *managed.Scope) (string, error) {
	native, err := uid.Decode(scope)
	if err != nil {
		return "", err
	}
	return native.String(), nil
}
