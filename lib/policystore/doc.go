// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package policystore persists validated, normalized Cedar policies in
// SQLite, addressed by a BLAKE3 keyed digest of the normalized source.
//
// A digest identifies policy text, not a policy id: two documents that
// contain the same policy share one record, owned by whichever stored
// it first. [Store.PutSet] writes a whole document atomically;
// [Store.Get] and [Store.List] read it back.
package policystore
