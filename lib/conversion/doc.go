// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package conversion exposes the interop conversions as named actions.
//
// A [Handler] decodes a CBOR request, runs the action inside a fresh
// managed runtime and scope, and returns a plain Go result. Every
// reference the action created is released before Invoke returns,
// whether the action succeeded or not. [Handler.Register] puts the
// actions on a service.SocketServer; the CLI calls [Handler.Invoke]
// directly when no socket is given.
//
// Parse actions report malformed source as a result with present set
// to false. Build actions report it as an *interop.ConversionError of
// kind parse-failure.
//
// With a [PolicyStore] set, store-policy-set persists a validated
// document and lookup-policy reads a policy back by digest. Without
// one both actions fail with [ErrNoStore].
//
// [Metrics] counts actions by outcome and observes their latency with
// Prometheus collectors registered on a caller-supplied registry.
package conversion
