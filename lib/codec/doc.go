// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR encoding configuration shared by the
// conversion service and its clients.
//
// The service socket speaks CBOR; the CLI prints JSON. Both formats
// describe the same request and response types, so those types carry
// `json` struct tags only: fxamacker/cbor falls back to `json` tags
// when `cbor` tags are absent. A type that is never printed as JSON
// uses `cbor` tags instead. Never put both on one field.
//
// Values that implement encoding.TextMarshaler (cedar.EntityTypeName,
// cedar.EntityUID) are encoded as CBOR text strings in their canonical
// form and decoded back through UnmarshalText, so invalid names are
// rejected while decoding.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
package codec
