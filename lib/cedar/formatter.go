// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package cedar

import "fmt"

// FormatterConfig controls policy pretty-printing.
type FormatterConfig struct {
	// LineWidth is the target maximum line width.
	LineWidth int `json:"line_width"`

	// IndentWidth is the number of spaces per indentation level. It is
	// signed and passed through unchanged.
	IndentWidth int `json:"indent_width"`
}

// DefaultFormatterConfig matches the Cedar formatter's defaults.
var DefaultFormatterConfig = FormatterConfig{LineWidth: 80, IndentWidth: 2}

// Validate rejects a negative line width. Any indent width is
// accepted.
func (c FormatterConfig) Validate() error {
	if c.LineWidth < 0 {
		return fmt.Errorf("formatter line width must not be negative, got %d", c.LineWidth)
	}
	return nil
}
