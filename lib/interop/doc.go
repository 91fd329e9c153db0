// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package interop converts between managed objects and the native
// Cedar values in package cedar.
//
// Every managed class that crosses the boundary has a typed wrapper
// here: [String], [List], [Optional], [EntityTypeName],
// [EntityIdentifier], [EntityUID], [Policy], and [FormatterConfig].
// A wrapper pairs a [managed.Ref] with whatever native fields were
// decoded when it was built. Wrappers are snapshots, not live views,
// and are only valid while the scope that produced their Ref is open.
//
// There are two ways to obtain a wrapper, and both end in the same
// validated native value:
//
//   - Cast: an untyped Ref arrives from the managed side. The Cast
//     functions first compare the object's exact runtime class with
//     the expected class name and fail with an identity mismatch
//     before calling any accessor. Only then do they call the
//     accessors and validate the decoded fields.
//   - Construct: native code builds a new managed object. Native
//     validation runs first; nothing is allocated on the managed side
//     if it fails.
//
// Parse functions ([ParseEntityTypeName], [ParseEntityUID]) treat
// malformed input text as an expected outcome and return an absent
// [Optional]. Every other failure is a [*ConversionError] carrying one
// of four kinds; see [Kind].
//
// The class name constants in this package are the native half of the
// compatibility contract with the managed class library. They must
// change in lockstep with it.
package interop
