package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bawdo/exprsql/builder"
	"github.com/bawdo/exprsql/internal/config"
	"github.com/bawdo/exprsql/nodes"
	"github.com/ergochat/readline"
)

var errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")

// paramPattern matches the @name tokens BindParameter emits.
var paramPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// Session holds the REPL state: the statement being assembled, the table
// descriptors used so far, bound parameter values and the database
// connection.
type Session struct {
	cfg       config.Config
	stmt      *builder.StatementBuilder
	tables    map[string]*nodes.Table
	binds     map[string]any
	bindOrder []string
	commands  []commandEntry // command registry (sorted by prefix length desc)
	conn      *dbConn        // nil when disconnected
	lastDSN   string         // remembers the previous DSN for reconnect
	rl        *readline.Instance
	out       io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session with a fresh statement.
func NewSession(cfg config.Config, rl *readline.Instance) *Session {
	s := &Session{
		cfg:    cfg,
		stmt:   builder.New(),
		tables: make(map[string]*nodes.Table),
		binds:  make(map[string]any),
		rl:     rl,
		out:    os.Stdout,
	}
	s.initCommands()
	return s
}

// GenerateSQL returns the text of the current statement.
func (s *Session) GenerateSQL() (string, error) {
	return s.stmt.SQL()
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else {
			if lower == cmd.prefix {
				return cmd.handler("")
			}
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// aliasOpts maps a user-supplied alias to builder options. An empty string
// means "use the configured default"; "-" means no alias.
func (s *Session) aliasOpts(alias string) []builder.Option {
	switch alias {
	case "":
		return []builder.Option{builder.Alias(s.cfg.ResolvedAlias())}
	case "-":
		return []builder.Option{builder.NoAlias()}
	}
	return []builder.Option{builder.Alias(alias)}
}

// --- Statement commands ---

func (s *Session) cmdNew() error {
	s.stmt = builder.New()
	_, _ = fmt.Fprintln(s.out, "  New statement.")
	return nil
}

func (s *Session) cmdReset() error {
	s.stmt = builder.New()
	s.tables = make(map[string]*nodes.Table)
	s.binds = make(map[string]any)
	s.bindOrder = nil
	_, _ = fmt.Fprintln(s.out, "  Session reset.")
	return nil
}

func (s *Session) cmdTop(args string) error {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("top: expected a row count, got %q", strings.TrimSpace(args))
	}
	s.stmt.Limit(n)
	return nil
}

func (s *Session) cmdCol(args string) error {
	parts := strings.Fields(args)
	switch len(parts) {
	case 1:
		alias, name := splitQualified(parts[0])
		s.stmt.Column(name, s.aliasOpts(alias)...)
	case 2:
		s.stmt.Column(parts[0], s.aliasOpts(parts[1])...)
	default:
		return errors.New("usage: col <name> [alias|-]")
	}
	return nil
}

// cmdCols emits a comma-separated column list the way a translator does:
// column, separator, ..., then drops the trailing separator.
func (s *Session) cmdCols(args string) error {
	var names []string
	for _, part := range strings.Split(args, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return errors.New("usage: cols <name>, <name>, ...")
	}
	for _, n := range names {
		alias, name := splitQualified(n)
		s.stmt.Column(name, s.aliasOpts(alias)...).Separator()
	}
	s.stmt.Truncate()
	return nil
}

func (s *Session) cmdParam(args string) error {
	name := strings.TrimPrefix(strings.TrimSpace(args), "@")
	if name == "" {
		return errors.New("usage: param <name>")
	}
	s.stmt.BindParameter(name)
	return nil
}

func (s *Session) cmdValue(args string) error {
	v := strings.TrimSpace(args)
	if v == "" {
		return errors.New("usage: value <literal>")
	}
	s.stmt.Literal(parseLiteral(v))
	return nil
}

func (s *Session) cmdSep() error {
	s.stmt.Separator()
	return nil
}

func (s *Session) cmdTrunc(args string) error {
	arg := strings.TrimSpace(args)
	if arg == "" {
		s.stmt.Truncate()
		return s.stmt.Err()
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("trunc: expected a count, got %q", arg)
	}
	s.stmt.Truncate(n)
	return s.stmt.Err()
}

func (s *Session) cmdFrom(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return errors.New("usage: from [schema.]<table> [alias|-]")
	}
	schema, name := splitQualified(parts[0])
	tbl := s.ensureTable(name)
	if schema != "" {
		tbl = nodes.NewTable(name).SetSchema(schema)
	}
	alias := ""
	if len(parts) == 2 {
		alias = parts[1]
	}
	s.stmt.Source(tbl, s.aliasOpts(alias)...)
	return nil
}

// ensureTable returns the descriptor for name, creating it with the
// configured schema on first use.
func (s *Session) ensureTable(name string) *nodes.Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := nodes.NewTable(name)
	if schema := s.cfg.ResolvedSchema(); schema != "" {
		t.SetSchema(schema)
	} else {
		t.ClearSchema()
	}
	s.tables[name] = t
	return t
}

// cmdCondition handles where/and/or: <[alias.]col> <op> <@param|literal>.
func (s *Session) cmdCondition(conn builder.Connective, args string) error {
	parts := strings.Fields(args)
	if len(parts) < 3 {
		return errors.New("usage: where|and|or <[alias.]column> <op> <@param|literal>")
	}
	op, ok := nodes.ParseOperand(parts[1])
	if !ok {
		return fmt.Errorf("unknown operator %q (expected one of = <> != < <= > >=)", parts[1])
	}
	alias, col := splitQualified(parts[0])
	opts := s.aliasOpts(alias)
	rhs := strings.Join(parts[2:], " ")
	if strings.HasPrefix(rhs, "@") {
		name := rhs[1:]
		if name == "" {
			return errors.New("parameter name missing after @")
		}
		s.stmt.Condition(conn, op, col, name, opts...)
		return nil
	}
	s.stmt.ConditionValue(conn, op, col, parseLiteral(rhs), opts...)
	return nil
}

// --- Parameter values ---

func (s *Session) cmdBind(args string) error {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return errors.New("usage: bind <name> <value>")
	}
	name := strings.TrimPrefix(parts[0], "@")
	if _, exists := s.binds[name]; !exists {
		s.bindOrder = append(s.bindOrder, name)
	}
	s.binds[name] = parseBindValue(strings.TrimSpace(parts[1]))
	return nil
}

func (s *Session) cmdBinds() error {
	if len(s.bindOrder) == 0 {
		_, _ = fmt.Fprintln(s.out, "  (no bound values)")
		return nil
	}
	for _, name := range s.bindOrder {
		_, _ = fmt.Fprintf(s.out, "  @%s = %#v\n", name, s.binds[name])
	}
	return nil
}

// namedArgs returns one sql.NamedArg per distinct @name in query, in order
// of first appearance. Every referenced name must have a bound value.
func (s *Session) namedArgs(query string) ([]any, error) {
	var args []any
	seen := make(map[string]bool)
	for _, m := range paramPattern.FindAllStringSubmatch(query, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := s.binds[name]
		if !ok {
			return nil, fmt.Errorf("no value bound for @%s (use 'bind %s <value>')", name, name)
		}
		args = append(args, sql.Named(name, v))
	}
	return args, nil
}

// --- Display ---

func (s *Session) cmdSQL() error {
	text, err := s.stmt.SQL()
	if err != nil {
		_, _ = fmt.Fprintf(s.out, "  %s\n", s.stmt.String())
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", text)
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 && s.conn == nil {
		_, _ = fmt.Fprintln(s.out, "  (no tables)")
		return nil
	}
	for _, name := range sortedKeys(s.tables) {
		t := s.tables[name]
		_, _ = fmt.Fprintf(s.out, "  %s (schema %q)\n", t.Name(), t.Schema())
	}
	if s.conn != nil {
		for _, name := range s.conn.schemaTables() {
			_, _ = fmt.Fprintf(s.out, "  %s (database)\n", name)
		}
	}
	return nil
}

// --- Database ---

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		dsn = s.lastDSN
	}
	if dsn == "" {
		dsn = s.cfg.DSN
	}
	if dsn == "" {
		dsn = prompt(s.rl, "Database path", ":memory:")
	}
	return s.connectWithDSN(dsn)
}

func (s *Session) connectWithDSN(dsn string) error {
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
	conn, err := connect(dsn, s.cfg.ResolvedSchema(), s.cfg.MaxRows)
	if err != nil {
		return err
	}
	s.conn = conn
	s.lastDSN = dsn
	_, _ = fmt.Fprintf(s.out, "  Connected to %s\n", sanitizeDSN(dsn))
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errNotConnected
	}
	err := s.conn.close()
	s.conn = nil
	_, _ = fmt.Fprintln(s.out, "  Disconnected.")
	return err
}

func (s *Session) cmdExec() error {
	if s.conn == nil {
		return errNotConnected
	}
	query, err := s.stmt.SQL()
	if err != nil {
		return err
	}
	args, err := s.namedArgs(query)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(s.out, "  %s;\n", query)
	if len(args) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %s\n", formatNamedArgs(args))
	}

	result, err := s.conn.execQuery(query, args)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdRaw(args string) error {
	if s.conn == nil {
		return errNotConnected
	}
	query := strings.TrimSpace(args)
	if query == "" {
		return errors.New("usage: raw <sql>")
	}
	params, err := s.namedArgs(query)
	if err != nil {
		return err
	}
	result, err := s.conn.execRaw(query, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprint(s.out, `  Statement (each command appends one fragment):
    top <n>                          TOP n (directly after SELECT)
    col [alias.]<name> | <name> <alias|->
    cols <a>, <b>, ...               columns joined by commas
    param <name>                     @name placeholder
    value <literal>                  unquoted literal
    sep                              comma
    trunc [n]                        drop the last n characters (default 1)
    from [schema.]<table> [alias|-]  FROM clause
    where|and|or [alias.]<col> <op> <@param|literal>
                                     first condition always renders WHERE
    sql                              show the statement
    new                              start a new statement
    reset                            clear statement, tables and bound values

  Parameters:
    bind <name> <value>              value for @name when executing
    binds                            list bound values

  Database (SQLite; the configured schema is attached in memory):
    connect [dsn]                    connect (default :memory:)
    disconnect
    exec | run                       execute the statement
    raw <sql>                        execute any SQL (e.g. CREATE TABLE)
    tables                           list known tables

    help | exit | quit
`)
}
