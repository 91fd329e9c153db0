// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package cedar

import (
	"fmt"
	"slices"
	"strings"

	cedargo "github.com/cedar-policy/cedar-go"
)

// EntityTypeName is a qualified entity type name: zero or more
// namespace components followed by a base name, each a valid
// identifier. Examples: "User", "Library::Book",
// "Acme::Storage::Bucket".
type EntityTypeName struct {
	namespace []string
	basename  string
}

// NewEntityTypeName validates and builds a type name from its
// components. The namespace slice is copied.
func NewEntityTypeName(namespace []string, basename string) (EntityTypeName, error) {
	if err := CheckComponents(append(slices.Clone(namespace), basename)); err != nil {
		return EntityTypeName{}, err
	}
	for _, component := range namespace {
		if err := validateIdentifier(component); err != nil {
			return EntityTypeName{}, fmt.Errorf("invalid entity type namespace: %w", err)
		}
	}
	if err := validateIdentifier(basename); err != nil {
		return EntityTypeName{}, fmt.Errorf("invalid entity type basename: %w", err)
	}
	return EntityTypeName{
		namespace: slices.Clone(namespace),
		basename:  basename,
	}, nil
}

// CheckComponents fails if any component contains the "::" separator.
// Joining such a component would change the number of components in
// the canonical form.
func CheckComponents(components []string) error {
	for i, component := range components {
		if strings.Contains(component, Separator) {
			return fmt.Errorf("entity type name component %d (%q) contains %q", i, component, Separator)
		}
	}
	return nil
}

// ParseEntityTypeName parses the "::"-joined form. Whitespace is not
// permitted anywhere in the input.
func ParseEntityTypeName(raw string) (EntityTypeName, error) {
	if raw == "" {
		return EntityTypeName{}, fmt.Errorf("invalid entity type name: empty")
	}
	components := strings.Split(raw, Separator)
	name, err := NewEntityTypeName(components[:len(components)-1], components[len(components)-1])
	if err != nil {
		return EntityTypeName{}, fmt.Errorf("parsing entity type name %q: %w", raw, err)
	}
	return name, nil
}

// Namespace returns a copy of the namespace components, outermost
// first. Empty for an unqualified name.
func (n EntityTypeName) Namespace() []string { return slices.Clone(n.namespace) }

// NamespaceString returns the namespace components joined by "::".
func (n EntityTypeName) NamespaceString() string { return strings.Join(n.namespace, Separator) }

// Basename returns the final component.
func (n EntityTypeName) Basename() string { return n.basename }

// IsZero reports whether n is the zero (invalid) value.
func (n EntityTypeName) IsZero() bool { return n.basename == "" }

// String returns the canonical "::"-joined form.
func (n EntityTypeName) String() string {
	if len(n.namespace) == 0 {
		return n.basename
	}
	return n.NamespaceString() + Separator + n.basename
}

// Equal reports whether two names have identical components.
func (n EntityTypeName) Equal(other EntityTypeName) bool {
	return n.basename == other.basename && slices.Equal(n.namespace, other.namespace)
}

// Cedar returns the name as a cedar-go entity type.
func (n EntityTypeName) Cedar() cedargo.EntityType {
	return cedargo.EntityType(n.String())
}

// MarshalText implements encoding.TextMarshaler.
func (n EntityTypeName) MarshalText() ([]byte, error) {
	if n.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero-value EntityTypeName")
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *EntityTypeName) UnmarshalText(data []byte) error {
	parsed, err := ParseEntityTypeName(string(data))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
