package main

import (
	"sort"
	"strings"

	"github.com/bawdo/exprsql/nodes"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from
	contextColumnRef                          // after col/cols/where/and/or
	contextOperator                           // after a column in a condition
	contextBindName                           // parameter names
	contextNone                               // free-form argument
)

// operators lists the comparison tokens a condition accepts.
var operators = func() []string {
	var ops []string
	for _, op := range nodes.Operands() {
		ops = append(ops, op.SQL())
	}
	return append(ops, "!=")
}()

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = c.completeColumnNames(prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	case contextBindName:
		candidates = c.completeBindNames(prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		// Add trailing space for convenience.
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			if cmd.completer == nil {
				return contextNone, ""
			}
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	// Default: command completion.
	return contextCommand, strings.TrimSpace(line)
}

// completeTableNames returns session + DB table names matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	var names []string
	for name := range c.sess.tables {
		names = append(names, name)
	}
	if c.sess.conn != nil {
		names = append(names, c.sess.conn.schemaTables()...)
	}
	names = dedup(names)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeColumnNames returns column names of every known table. An
// "alias." prefix is kept on the candidates.
func (c *replCompleter) completeColumnNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	qualifier := ""
	if i := strings.LastIndex(prefix, "."); i >= 0 {
		qualifier = prefix[:i+1]
	}
	var cols []string
	for _, table := range c.completeTableNames("") {
		for _, col := range c.sess.conn.schemaColumns(table) {
			cols = append(cols, qualifier+col)
		}
	}
	cols = dedup(cols)
	sort.Strings(cols)
	return filterPrefix(cols, prefix)
}

// completeBindNames returns bound names plus names the statement references.
// With an "@" prefix the candidates carry the "@" too.
func (c *replCompleter) completeBindNames(prefix string) []string {
	names := append([]string(nil), c.sess.bindOrder...)
	for _, m := range paramPattern.FindAllStringSubmatch(c.sess.stmt.String(), -1) {
		names = append(names, m[1])
	}
	names = dedup(names)
	sort.Strings(names)
	if strings.HasPrefix(prefix, "@") {
		for i, n := range names {
			names[i] = "@" + n
		}
	}
	return filterPrefix(names, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace-separated token, handling commas.
func lastToken(s string) string {
	lastSep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == ',' || s[i] == '\t' {
			lastSep = i
			break
		}
	}
	if lastSep >= 0 {
		return s[lastSep+1:]
	}
	return s
}
