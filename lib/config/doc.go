// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for cedarbridge.
//
// Configuration is loaded from a single file specified by either the
// CEDARBRIDGE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks and no automatic file
// search.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Without an explicit production section,
// production logs at warn.
//
// Path fields are expanded after loading: ${HOME}, ${CEDARBRIDGE_ROOT},
// and ${VAR:-default} patterns. No other environment variables
// override config values.
package config
