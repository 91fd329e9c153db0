// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool wraps zombiezen.com/go/sqlite with a fixed-size
// connection pool and standard pragmas: WAL journaling, NORMAL
// synchronous, a 5 second busy timeout, foreign keys on, and in-memory
// temporary storage.
//
// Callers [Pool.Take] a connection and [Pool.Put] it back, or use
// [Pool.With]. The zombiezen types are exposed directly; callers write
// SQL with sqlitex.Execute and manage transactions with
// sqlitex.ImmediateTransaction.
package sqlitepool
