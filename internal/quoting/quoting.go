// Package quoting provides shared identifier quoting utilities.
package quoting

import "strings"

// IsBracketed reports whether s already starts with '[' and ends with ']'.
func IsBracketed(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// Bracket quotes a SQL identifier using square brackets.
// Identifiers that are already wrapped are returned unchanged, so Bracket is
// idempotent. No other escaping is performed.
func Bracket(s string) string {
	if IsBracketed(s) {
		return s
	}
	return "[" + s + "]"
}

// IsBlank reports whether s is empty or consists only of whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
