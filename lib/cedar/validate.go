// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package cedar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator joins the components of a qualified name.
const Separator = "::"

// reservedNamespace may not appear as a name component.
const reservedNamespace = "__cedar"

// reservedWords cannot be used as identifiers in a name.
var reservedWords = map[string]bool{
	"true":  true,
	"false": true,
	"if":    true,
	"then":  true,
	"else":  true,
	"in":    true,
	"is":    true,
	"like":  true,
	"has":   true,
}

// identifierStart and identifierPart classify ASCII bytes allowed in
// an identifier: [_a-zA-Z][_a-zA-Z0-9]*.
var identifierStart, identifierPart [256]bool

func init() {
	for c := byte('a'); c <= 'z'; c++ {
		identifierStart[c] = true
		identifierPart[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		identifierStart[c] = true
		identifierPart[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		identifierPart[c] = true
	}
	identifierStart['_'] = true
	identifierPart['_'] = true
}

// validateIdentifier checks one component of a qualified name.
func validateIdentifier(component string) error {
	if component == "" {
		return fmt.Errorf("empty name component")
	}
	if !identifierStart[component[0]] {
		return fmt.Errorf("name component %q: invalid first character %q", component, component[0])
	}
	for i := 1; i < len(component); i++ {
		if !identifierPart[component[i]] {
			return fmt.Errorf("name component %q: invalid character %q at position %d", component, component[i], i)
		}
	}
	if reservedWords[component] {
		return fmt.Errorf("name component %q is a reserved word", component)
	}
	if component == reservedNamespace {
		return fmt.Errorf("name component %q is reserved", component)
	}
	return nil
}

// escapeString renders s with backslash escapes for quotes,
// backslashes, and control characters, and \u{...} escapes for other
// non-printable runes. A combining mark at the start of the string is
// also escaped so it cannot attach to a preceding quote.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	first := true
	for _, r := range s {
		switch r {
		case 0:
			b.WriteString(`\0`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		default:
			if needsUnicodeEscape(r, first) {
				b.WriteString(`\u{`)
				b.WriteString(strconv.FormatInt(int64(r), 16))
				b.WriteByte('}')
			} else {
				b.WriteRune(r)
			}
		}
		first = false
	}
	return b.String()
}

func needsUnicodeEscape(r rune, first bool) bool {
	if r == utf8.RuneError {
		return true
	}
	if first && (unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r)) {
		return true
	}
	return !unicode.IsPrint(r) && r != ' '
}

// unescapeString decodes the body of a string literal (without the
// surrounding quotes). Accepted escapes: \n \r \t \\ \0 \' \" and
// \u{h} with one to six hex digits naming a valid scalar value.
func unescapeString(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("string literal ends with a lone backslash")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '0':
			b.WriteByte(0)
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'u':
			r, consumed, err := parseUnicodeEscape(body[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += consumed
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", body[i])
		}
	}
	return b.String(), nil
}

// parseUnicodeEscape parses "{hex}" at the start of s and returns the
// rune and the number of bytes consumed.
func parseUnicodeEscape(s string) (rune, int, error) {
	if len(s) == 0 || s[0] != '{' {
		return 0, 0, fmt.Errorf("invalid unicode escape: expected '{'")
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return 0, 0, fmt.Errorf("invalid unicode escape: missing '}'")
	}
	digits := s[1:end]
	if len(digits) == 0 || len(digits) > 6 {
		return 0, 0, fmt.Errorf("invalid unicode escape \\u{%s}: expected 1 to 6 hex digits", digits)
	}
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid unicode escape \\u{%s}: %w", digits, err)
	}
	r := rune(value)
	if !utf8.ValidRune(r) {
		return 0, 0, fmt.Errorf("invalid unicode escape \\u{%s}: not a unicode scalar value", digits)
	}
	return r, end + 1, nil
}
