// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package cedar provides the native, validated forms of the Cedar
// values that cross the managed-runtime boundary: entity type names,
// entity identifiers, entity UIDs, and formatter settings.
//
// Every type is an immutable value. Constructors and Parse functions
// validate their input and return an error rather than a partially
// valid value; the zero value of each type is not valid and reports
// IsZero.
//
// Canonical text forms:
//   - [EntityTypeName]: namespace components and base name joined by
//     "::" (e.g., "Library::Book").
//   - [EntityID]: the raw string; [EntityID.Escaped] gives the
//     escaped form used inside string literals.
//   - [EntityUID]: type name, "::", then the escaped id in double
//     quotes (e.g., `Library::Book::"The black Swan"`).
//
// EntityTypeName and EntityUID implement encoding.TextMarshaler and
// encoding.TextUnmarshaler using these canonical forms, so they travel
// through JSON and CBOR (see lib/codec) as plain strings.
package cedar
