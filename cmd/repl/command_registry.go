package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/exprsql/builder"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- no-arg / display commands ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "new", handler: func(_ string) error { return s.cmdNew() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- statement fragments ---
		{prefix: "top ", handler: func(a string) error { return s.cmdTop(a) }},
		{prefix: "take ", handler: func(a string) error { return s.cmdTop(a) }, hidden: true},
		{prefix: "col ", handler: func(a string) error { return s.cmdCol(a) }, completer: completeColumnArgs},
		{prefix: "cols ", handler: func(a string) error { return s.cmdCols(a) }, completer: completeColumnArgs},
		{prefix: "param ", handler: func(a string) error { return s.cmdParam(a) }, completer: completeBindArgs},
		{prefix: "value ", handler: func(a string) error { return s.cmdValue(a) }},
		{prefix: "sep", handler: func(_ string) error { return s.cmdSep() }},
		{prefix: "trunc ", handler: func(a string) error { return s.cmdTrunc(a) }},
		{prefix: "trunc", handler: func(_ string) error { return s.cmdTrunc("") }},
		{prefix: "from ", handler: func(a string) error { return s.cmdFrom(a) }, completer: completeTableArgs},

		// --- conditions ---
		{prefix: "where ", handler: func(a string) error { return s.cmdCondition(builder.And, a) }, completer: completeConditionArgs},
		{prefix: "and ", handler: func(a string) error { return s.cmdCondition(builder.And, a) }, completer: completeConditionArgs},
		{prefix: "or ", handler: func(a string) error { return s.cmdCondition(builder.Or, a) }, completer: completeConditionArgs},

		// --- parameter values ---
		{prefix: "bind ", handler: func(a string) error { return s.cmdBind(a) }, completer: completeBindArgs},
		{prefix: "binds", handler: func(_ string) error { return s.cmdBinds() }},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "raw ", handler: func(a string) error { return s.cmdRaw(a) }},
		{prefix: "raw", handler: func(_ string) error { return fmt.Errorf("usage: raw <sql>") }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeTableArgs handles completion for the from command: a table name,
// then nothing (the alias is free-form).
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimLeft(args, " ")
	if !strings.Contains(arg, " ") {
		return contextTableName, arg
	}
	return contextNone, ""
}

// completeColumnArgs handles completion for col/cols: column names.
func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") || strings.HasSuffix(args, ",") {
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeConditionArgs handles where/and/or: column, operator, then a
// bound parameter name.
func completeConditionArgs(args string) (completionContext, string) {
	words := strings.Fields(args)
	trailing := strings.HasSuffix(args, " ")
	switch {
	case len(words) == 0:
		return contextColumnRef, ""
	case len(words) == 1 && !trailing:
		return contextColumnRef, words[0]
	case len(words) == 1 || (len(words) == 2 && !trailing):
		if trailing {
			return contextOperator, ""
		}
		return contextOperator, words[1]
	case len(words) == 2 || (len(words) == 3 && !trailing):
		if trailing {
			return contextBindName, ""
		}
		return contextBindName, words[2]
	}
	return contextNone, ""
}

// completeBindArgs handles bind/param: names of parameters already bound or
// referenced by the statement.
func completeBindArgs(args string) (completionContext, string) {
	arg := strings.TrimLeft(args, " ")
	if !strings.Contains(arg, " ") {
		return contextBindName, arg
	}
	return contextNone, ""
}
