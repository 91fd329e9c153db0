// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package cedar

import cedargo "github.com/cedar-policy/cedar-go"

// EntityID identifies one entity within its type. Any string is a
// valid identifier, including the empty string.
type EntityID struct {
	raw string
}

// NewEntityID wraps raw. It cannot fail.
func NewEntityID(raw string) EntityID { return EntityID{raw: raw} }

// String returns the raw identifier.
func (id EntityID) String() string { return id.raw }

// Escaped returns the identifier as it appears between the quotes of
// a string literal. Escaping is deterministic but not idempotent:
// escaping an already escaped string escapes its backslashes again.
func (id EntityID) Escaped() string { return escapeString(id.raw) }

// Cedar returns the identifier as a cedar-go string.
func (id EntityID) Cedar() cedargo.String { return cedargo.String(id.raw) }
