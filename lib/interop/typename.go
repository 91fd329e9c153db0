// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"strings"

	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/managed"
)

// EntityTypeName wraps a com/cedarpolicy/value/EntityTypeName and the
// validated name decoded from it.
type EntityTypeName struct {
	ref    managed.Ref
	native cedar.EntityTypeName
}

// NewEntityTypeName validates basename and namespace as a type name
// and allocates the managed object from them. The namespace list is
// read before the basename. On a validation failure nothing is
// allocated and the error has KindParse.
func NewEntityTypeName(scope *managed.Scope, basename String, namespace List[String]) (EntityTypeName, error) {
	components, err := NativeStrings(scope, namespace.Ref())
	if err != nil {
		return EntityTypeName{}, err
	}
	native, err := nativeTypeName(components, basename.Value())
	if err != nil {
		return EntityTypeName{}, err
	}
	ref, err := newObject(scope, ClassEntityTypeName, namespace.Ref(), basename.Ref())
	if err != nil {
		return EntityTypeName{}, err
	}
	return EntityTypeName{ref: ref, native: native}, nil
}

// EntityTypeNameFromNative allocates the managed form of name.
func EntityTypeNameFromNative(scope *managed.Scope, name cedar.EntityTypeName) (EntityTypeName, error) {
	namespace, err := NewStringList(scope, name.Namespace())
	if err != nil {
		return EntityTypeName{}, err
	}
	basename, err := NewString(scope, name.Basename())
	if err != nil {
		return EntityTypeName{}, err
	}
	return NewEntityTypeName(scope, basename, namespace)
}

// CastEntityTypeName verifies ref's class, reads getNamespace then
// getBaseName, and validates them exactly as NewEntityTypeName does.
func CastEntityTypeName(scope *managed.Scope, ref managed.Ref) (EntityTypeName, error) {
	return castChecked(scope, ref, ClassEntityTypeName, func() (EntityTypeName, error) {
		namespaceRef, err := callObject(scope, ref, "getNamespace")
		if err != nil {
			return EntityTypeName{}, err
		}
		components, err := NativeStrings(scope, namespaceRef)
		if err != nil {
			return EntityTypeName{}, err
		}
		basenameRef, err := callObject(scope, ref, "getBaseName")
		if err != nil {
			return EntityTypeName{}, err
		}
		basename, err := NativeString(scope, basenameRef)
		if err != nil {
			return EntityTypeName{}, err
		}
		native, err := nativeTypeName(components, basename)
		if err != nil {
			return EntityTypeName{}, err
		}
		return EntityTypeName{ref: ref, native: native}, nil
	})
}

// ParseEntityTypeName parses source as a type name. Malformed source
// yields an empty Optional, not an error.
func ParseEntityTypeName(scope *managed.Scope, source string) (Optional[EntityTypeName], error) {
	native, err := cedar.ParseEntityTypeName(source)
	if err != nil {
		return EmptyOptional[EntityTypeName](scope)
	}
	name, err := EntityTypeNameFromNative(scope, native)
	if err != nil {
		return Optional[EntityTypeName]{}, err
	}
	return OptionalOf(scope, name)
}

// nativeTypeName appends basename to the namespace components, rejects
// any component containing the separator, joins them, and parses the
// result.
func nativeTypeName(namespace []string, basename string) (cedar.EntityTypeName, error) {
	components := append(namespace[:len(namespace):len(namespace)], basename)
	if err := cedar.CheckComponents(components); err != nil {
		return cedar.EntityTypeName{}, parseError("EntityTypeName", err)
	}
	native, err := cedar.ParseEntityTypeName(strings.Join(components, cedar.Separator))
	if err != nil {
		return cedar.EntityTypeName{}, parseError("EntityTypeName", err)
	}
	return native, nil
}

// Ref implements Object.
func (n EntityTypeName) Ref() managed.Ref { return n.ref }

// Native returns the validated name.
func (n EntityTypeName) Native() cedar.EntityTypeName { return n.native }

// StringRepr returns the canonical "::"-joined name.
func (n EntityTypeName) StringRepr() string { return n.native.String() }

// Namespace calls the managed getNamespace accessor.
func (n EntityTypeName) Namespace(scope *managed.Scope) (List[String], error) {
	ref, err := callObject(scope, n.ref, "getNamespace")
	if err != nil {
		return List[String]{}, err
	}
	return CastListUnchecked[String](ref), nil
}

// Basename calls the managed getBaseName accessor.
func (n EntityTypeName) Basename(scope *managed.Scope) (String, error) {
	ref, err := callObject(scope, n.ref, "getBaseName")
	if err != nil {
		return String{}, err
	}
	return CastString(scope, ref)
}
