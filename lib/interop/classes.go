// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

// Fully qualified managed class names checked by the casts.
const (
	ClassString           = "java/lang/String"
	ClassArrayList        = "java/util/ArrayList"
	ClassOptional         = "java/util/Optional"
	ClassEntityTypeName   = "com/cedarpolicy/value/EntityTypeName"
	ClassEntityIdentifier = "com/cedarpolicy/value/EntityIdentifier"
	ClassEntityUID        = "com/cedarpolicy/value/EntityUID"
	ClassPolicy           = "com/cedarpolicy/model/policy/Policy"
	ClassFormatterConfig  = "com/cedarpolicy/model/formatter/Config"
)
