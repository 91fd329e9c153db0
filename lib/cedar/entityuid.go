// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package cedar

import (
	"fmt"
	"strings"

	cedargo "github.com/cedar-policy/cedar-go"
)

// EntityUID uniquely identifies an entity: its type name and its id.
type EntityUID struct {
	entityType EntityTypeName
	id         EntityID
}

// NewEntityUID combines a type name and an id. The type name must be
// valid (non-zero).
func NewEntityUID(entityType EntityTypeName, id EntityID) (EntityUID, error) {
	if entityType.IsZero() {
		return EntityUID{}, fmt.Errorf("entity uid requires a type name")
	}
	return EntityUID{entityType: entityType, id: id}, nil
}

// ParseEntityUID parses the canonical form: a type name, "::", and a
// double-quoted string literal, e.g. `Library::Book::"b\"1"`. The type
// name is everything before the first double quote minus the trailing
// separator; nothing may follow the closing quote.
func ParseEntityUID(raw string) (EntityUID, error) {
	quote := strings.IndexByte(raw, '"')
	if quote < 0 {
		return EntityUID{}, fmt.Errorf("parsing entity uid %q: missing quoted id", raw)
	}
	typePart, ok := strings.CutSuffix(raw[:quote], Separator)
	if !ok {
		return EntityUID{}, fmt.Errorf("parsing entity uid %q: expected %q before the id", raw, Separator)
	}
	entityType, err := ParseEntityTypeName(typePart)
	if err != nil {
		return EntityUID{}, fmt.Errorf("parsing entity uid %q: %w", raw, err)
	}

	body, err := quotedBody(raw[quote:])
	if err != nil {
		return EntityUID{}, fmt.Errorf("parsing entity uid %q: %w", raw, err)
	}
	id, err := unescapeString(body)
	if err != nil {
		return EntityUID{}, fmt.Errorf("parsing entity uid %q: %w", raw, err)
	}
	return EntityUID{entityType: entityType, id: NewEntityID(id)}, nil
}

// quotedBody returns the text between the opening quote at s[0] and
// the matching unescaped closing quote, which must end s.
func quotedBody(s string) (string, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			if i != len(s)-1 {
				return "", fmt.Errorf("unexpected %q after the quoted id", s[i+1:])
			}
			return s[1:i], nil
		}
	}
	return "", fmt.Errorf("unterminated quoted id")
}

// Type returns the entity's type name.
func (uid EntityUID) Type() EntityTypeName { return uid.entityType }

// ID returns the entity's id.
func (uid EntityUID) ID() EntityID { return uid.id }

// IsZero reports whether uid is the zero (invalid) value.
func (uid EntityUID) IsZero() bool { return uid.entityType.IsZero() }

// String returns the canonical form with the id escaped.
func (uid EntityUID) String() string {
	return uid.entityType.String() + Separator + `"` + uid.id.Escaped() + `"`
}

// Equal reports whether two UIDs have equal types and ids.
func (uid EntityUID) Equal(other EntityUID) bool {
	return uid.entityType.Equal(other.entityType) && uid.id == other.id
}

// Cedar returns the UID as a cedar-go entity UID.
func (uid EntityUID) Cedar() cedargo.EntityUID {
	return cedargo.NewEntityUID(uid.entityType.Cedar(), uid.id.Cedar())
}

// MarshalText implements encoding.TextMarshaler.
func (uid EntityUID) MarshalText() ([]byte, error) {
	if uid.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero-value EntityUID")
	}
	return []byte(uid.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (uid *EntityUID) UnmarshalText(data []byte) error {
	parsed, err := ParseEntityUID(string(data))
	if err != nil {
		return err
	}
	*uid = parsed
	return nil
}
