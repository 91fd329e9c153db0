// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"fmt"
	"math"

	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/managed"
)

// FormatterConfig wraps a com/cedarpolicy/model/formatter/Config and
// the widths read from it.
type FormatterConfig struct {
	ref    managed.Ref
	native cedar.FormatterConfig
}

// NewFormatterConfig validates config and allocates the managed
// object.
func NewFormatterConfig(scope *managed.Scope, config cedar.FormatterConfig) (FormatterConfig, error) {
	if err := config.Validate(); err != nil {
		return FormatterConfig{}, parseError("FormatterConfig", err)
	}
	if config.LineWidth > math.MaxInt32 || config.IndentWidth > math.MaxInt32 || config.IndentWidth < math.MinInt32 {
		return FormatterConfig{}, parseError("FormatterConfig",
			fmt.Errorf("widths must fit in a 32-bit int, got %d and %d", config.LineWidth, config.IndentWidth))
	}
	ref, err := newObject(scope, ClassFormatterConfig,
		managed.Int(config.LineWidth), managed.Int(config.IndentWidth))
	if err != nil {
		return FormatterConfig{}, err
	}
	return FormatterConfig{ref: ref, native: config}, nil
}

// CastFormatterConfig verifies ref's class and reads getLineWidth then
// getIndentWidth. A negative line width fails with KindParse.
func CastFormatterConfig(scope *managed.Scope, ref managed.Ref) (FormatterConfig, error) {
	return castChecked(scope, ref, ClassFormatterConfig, func() (FormatterConfig, error) {
		lineWidth, err := callInt(scope, ref, "getLineWidth")
		if err != nil {
			return FormatterConfig{}, err
		}
		indentWidth, err := callInt(scope, ref, "getIndentWidth")
		if err != nil {
			return FormatterConfig{}, err
		}
		native := cedar.FormatterConfig{LineWidth: int(lineWidth), IndentWidth: int(indentWidth)}
		if err := native.Validate(); err != nil {
			return FormatterConfig{}, parseError("FormatterConfig", err)
		}
		return FormatterConfig{ref: ref, native: native}, nil
	})
}

// Ref implements Object.
func (c FormatterConfig) Ref() managed.Ref { return c.ref }

// Native returns the validated widths.
func (c FormatterConfig) Native() cedar.FormatterConfig { return c.native }
