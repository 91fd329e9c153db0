// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the Unix socket transport for the
// conversion service.
//
// [SocketServer] accepts one CBOR request per connection, routes it by
// its "action" field to a registered [ActionFunc], and writes one
// [Response] envelope: {ok, error, data}. [ServiceClient] is the
// matching client. [HTTPServer] serves plain HTTP, used for the
// metrics endpoint, with the same Serve(ctx) lifecycle.
//
// The package knows nothing about conversions; package conversion
// registers its actions on a SocketServer. There is no
// authentication: access is controlled by the socket file's
// permissions.
package service
