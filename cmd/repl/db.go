package main

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bawdo/exprsql/internal/quoting"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// reservedSchemas are built into every SQLite connection and cannot be attached.
var reservedSchemas = map[string]bool{"main": true, "temp": true}

type schemaCache struct {
	tables  []string
	columns map[string][]string // table name -> column names
}

type dbConn struct {
	db      *sql.DB
	dsn     string
	schema  string // attached schema, "" when tables live in main
	maxRows int
	cache   schemaCache
}

// connect opens a SQLite database and attaches schema as an in-memory
// database so schema-qualified names like [dbo].[Widget] resolve.
func connect(dsn, schema string, maxRows int) (*dbConn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// Attached databases and :memory: contents belong to one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	conn := &dbConn{db: db, dsn: dsn, maxRows: maxRows}
	conn.cache.columns = make(map[string][]string)
	if schema != "" && !reservedSchemas[strings.ToLower(schema)] {
		if _, err := db.Exec("ATTACH DATABASE ':memory:' AS ?", schema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("attach schema %s: %w", schema, err)
		}
		conn.schema = schema
	}
	if err := conn.loadSchema(); err != nil {
		// Non-fatal: schema introspection is best-effort for autocomplete.
		fmt.Fprintf(os.Stderr, "  Note: schema introspection failed: %v\n", err)
	}
	return conn, nil
}

func (c *dbConn) close() error {
	return c.db.Close()
}

func (c *dbConn) execQuery(sqlStr string, params []any) (string, error) {
	rows, err := c.db.Query(sqlStr, params...)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return formatRows(rows, c.maxRows)
}

// execRaw runs arbitrary SQL. Statements that produce rows are formatted as
// a table; anything else reports the affected row count. The schema cache
// is refreshed afterwards since DDL may have changed it.
func (c *dbConn) execRaw(sqlStr string, params []any) (string, error) {
	if returnsRows(sqlStr) {
		return c.execQuery(sqlStr, params)
	}
	res, err := c.db.Exec(sqlStr, params...)
	if err != nil {
		return "", fmt.Errorf("exec: %w", err)
	}
	c.cache.columns = make(map[string][]string)
	if err := c.loadSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "  Note: schema introspection failed: %v\n", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "OK\n", nil
	}
	return fmt.Sprintf("OK (%d rows affected)\n", n), nil
}

func returnsRows(sqlStr string) bool {
	fields := strings.Fields(sqlStr)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "PRAGMA", "VALUES", "EXPLAIN":
		return true
	}
	return false
}

func formatRows(rows *sql.Rows, maxRows int) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	truncated := false
	for rows.Next() {
		if maxRows > 0 && len(data) >= maxRows {
			truncated = true
			break
		}
		vals := make([]*sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			vals[i] = &sql.NullString{}
			ptrs[i] = vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows: %w", err)
	}

	result := formatTable(columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return result, nil
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)

	b.WriteString(sep)
	b.WriteByte('|')
	for i, c := range columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)

	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(sep)

	n := len(rows)
	if n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}

	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		for j := 0; j < w+2; j++ {
			b.WriteByte('-')
		}
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

// masterTable returns the sqlite_master reference for the attached schema.
func (c *dbConn) masterTable() string {
	if c.schema == "" {
		return "sqlite_master"
	}
	return quoting.Bracket(c.schema) + ".sqlite_master"
}

func (c *dbConn) loadSchema() error {
	query := "SELECT name FROM " + c.masterTable() +
		" WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	tables, err := c.queryStringColumn(query)
	if err != nil {
		return err
	}
	c.cache.tables = tables
	return nil
}

func (c *dbConn) schemaTables() []string {
	return c.cache.tables
}

func (c *dbConn) schemaColumns(table string) []string {
	if cols, ok := c.cache.columns[table]; ok {
		return cols
	}
	schema := c.schema
	if schema == "" {
		schema = "main"
	}
	cols, err := c.queryStringColumn("SELECT name FROM pragma_table_info(?, ?)", table, schema)
	if err != nil {
		return nil
	}
	c.cache.columns[table] = cols
	return cols
}

func (c *dbConn) queryStringColumn(query string, params ...any) ([]string, error) {
	rows, err := c.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// sanitizeDSN masks the password of URL-style DSNs.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuild manually to avoid percent-encoding the mask.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
	}
	return dsn
}
