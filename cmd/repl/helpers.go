package main

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bawdo/exprsql/internal/quoting"
)

// splitQualified splits "qualifier.name" at the first dot. Bracketed names
// are never split, so "[a.b]" stays whole.
func splitQualified(s string) (qualifier, name string) {
	if quoting.IsBracketed(s) {
		return "", s
	}
	if i := strings.Index(s, "."); i > 0 && i < len(s)-1 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// parseLiteral converts REPL text into the value written by Literal.
// Integers, floats and booleans become typed values; anything else is kept
// verbatim, quotes included.
func parseLiteral(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// parseBindValue converts REPL text into a driver value. Like parseLiteral,
// but a single-quoted string is unquoted and "null" becomes nil.
func parseBindValue(s string) any {
	if strings.EqualFold(s, "null") {
		return nil
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return parseLiteral(s)
}

// formatNamedArgs renders args as "@a=1, @b="x"".
func formatNamedArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if na, ok := a.(sql.NamedArg); ok {
			parts = append(parts, fmt.Sprintf("@%s=%#v", na.Name, na.Value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%#v", a))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
