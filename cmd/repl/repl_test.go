package main

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bawdo/exprsql/builder"
	"github.com/bawdo/exprsql/internal/config"
	"github.com/bawdo/exprsql/internal/testutil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess := NewSession(config.Default(), nil)
	sess.out = io.Discard
	return sess
}

// helper executes commands then returns GenerateSQL output.
func execSQL(t *testing.T, commands ...string) string {
	t.Helper()
	sess := newTestSession(t)
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
	sql, err := sess.GenerateSQL()
	if err != nil {
		t.Fatalf("GenerateSQL failed: %v", err)
	}
	return sql
}

// --- Statement assembly ---

func TestFreshSessionSelect(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, execSQL(t), "SELECT")
}

func TestColumnsFromTable(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "col Id", "sep", "col Name", "sep", "trunc", "from Widget a")
	testutil.AssertEqual(t, got, "SELECT a.[Id], a.[Name] FROM [dbo].[Widget] AS a")
}

func TestColsCommand(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "cols Id, Name, w.Count", "from Widget")
	testutil.AssertEqual(t, got, "SELECT a.[Id], a.[Name], w.[Count] FROM [dbo].[Widget] AS a")
}

func TestColAliasForms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cmd  string
		want string
	}{
		{"col Id", "SELECT a.[Id]"},
		{"col w.Id", "SELECT w.[Id]"},
		{"col Id w", "SELECT w.[Id]"},
		{"col Id -", "SELECT [Id]"},
		{"col [Id]", "SELECT a.[Id]"},
		{"col [a.b]", "SELECT a.[a.b]"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			testutil.AssertEqual(t, execSQL(t, tt.cmd), tt.want)
		})
	}
}

func TestTopParamValue(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "top 10", "param @p", "sep", "value 42")
	testutil.AssertEqual(t, got, "SELECT TOP 10 @p, 42")
}

func TestFromVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cmd  string
		want string
	}{
		{"from Widget", "SELECT FROM [dbo].[Widget] AS a"},
		{"from Widget w", "SELECT FROM [dbo].[Widget] AS w"},
		{"from Widget -", "SELECT FROM [dbo].[Widget]"},
		{"from sales.Orders o", "SELECT FROM [sales].[Orders] AS o"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			testutil.AssertEqual(t, execSQL(t, tt.cmd), tt.want)
		})
	}
}

func TestConditions(t *testing.T) {
	t.Parallel()
	got := execSQL(t,
		"col Id", "from Widget",
		"or Id = @id",
		"or Count = 5",
		"and w.Name != 'x'",
	)
	testutil.AssertEqual(t, got,
		"SELECT a.[Id] FROM [dbo].[Widget] AS a WHERE a.[Id] = @id OR a.[Count] = 5 AND w.[Name] <> 'x'")
}

func TestConditionErrors(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	testutil.AssertError(t, sess.Execute("where Id"))
	testutil.AssertError(t, sess.Execute("where Id LIKE 5"))
	testutil.AssertError(t, sess.Execute("where Id = @"))
	sql, _ := sess.GenerateSQL()
	testutil.AssertEqual(t, sql, "SELECT")
}

func TestTruncUnderflow(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	err := sess.Execute("trunc 100")
	testutil.AssertErrorIs(t, err, builder.ErrBufferUnderflow)
	_, err = sess.GenerateSQL()
	testutil.AssertErrorIs(t, err, builder.ErrBufferUnderflow)

	// new starts over
	testutil.AssertNoError(t, sess.Execute("new"))
	sql, err := sess.GenerateSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "SELECT")
}

func TestTopRequiresNumber(t *testing.T) {
	t.Parallel()
	testutil.AssertError(t, newTestSession(t).Execute("top ten"))
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	err := newTestSession(t).Execute("frobnicate now")
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("expected unknown command error, got %v", err)
	}
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "COL Id", "FROM Widget", "WHERE Id = @id")
	testutil.AssertEqual(t, got, "SELECT a.[Id] FROM [dbo].[Widget] AS a WHERE a.[Id] = @id")
}

func TestConfiguredAliasAndSchema(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Alias = "-"
	cfg.Schema = "-"
	sess := NewSession(cfg, nil)
	sess.out = io.Discard
	for _, cmd := range []string{"col Id", "from Widget", "where Id = 1"} {
		testutil.AssertNoError(t, sess.Execute(cmd))
	}
	sql, err := sess.GenerateSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "SELECT [Id] FROM [Widget] WHERE [Id] = 1")
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	for _, cmd := range []string{"from Widget", "bind id 1", "reset"} {
		testutil.AssertNoError(t, sess.Execute(cmd))
	}
	testutil.AssertEqual(t, len(sess.tables), 0)
	testutil.AssertEqual(t, len(sess.binds), 0)
	sql, _ := sess.GenerateSQL()
	testutil.AssertEqual(t, sql, "SELECT")
}

// --- Bound values ---

func TestBindParsesValues(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	for _, cmd := range []string{
		"bind id 7",
		"bind @ratio 1.5",
		"bind name 'O''Brien'",
		"bind flag true",
		"bind gone null",
		"bind word hello",
	} {
		testutil.AssertNoError(t, sess.Execute(cmd))
	}
	testutil.AssertEqual(t, sess.binds["id"], any(int64(7)))
	testutil.AssertEqual(t, sess.binds["ratio"], any(1.5))
	testutil.AssertEqual(t, sess.binds["name"], any("O'Brien"))
	testutil.AssertEqual(t, sess.binds["flag"], any(true))
	testutil.AssertEqual(t, sess.binds["gone"], nil)
	testutil.AssertEqual(t, sess.binds["word"], any("hello"))
	testutil.AssertEqual(t, strings.Join(sess.bindOrder, ","), "id,ratio,name,flag,gone,word")
}

func TestBindUsage(t *testing.T) {
	t.Parallel()
	testutil.AssertError(t, newTestSession(t).Execute("bind id"))
}

func TestNamedArgs(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	testutil.AssertNoError(t, sess.Execute("bind b 2"))
	testutil.AssertNoError(t, sess.Execute("bind a 1"))

	args, err := sess.namedArgs("SELECT WHERE x = @a OR y = @b OR z = @a")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(args), 2)
	testutil.AssertEqual(t, args[0].(sql.NamedArg).Name, "a")
	testutil.AssertEqual(t, args[1].(sql.NamedArg).Name, "b")

	_, err = sess.namedArgs("SELECT @missing")
	if err == nil || !strings.Contains(err.Error(), "@missing") {
		t.Errorf("expected missing bind error, got %v", err)
	}
}

// --- Output ---

func TestSQLCommandPrints(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sess := newTestSession(t)
	sess.out = &buf
	testutil.AssertNoError(t, sess.Execute("col Id"))
	testutil.AssertNoError(t, sess.Execute("sql"))
	testutil.AssertEqual(t, buf.String(), "  SELECT a.[Id]\n")
}

func TestHelpListsCommands(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sess := newTestSession(t)
	sess.out = &buf
	testutil.AssertNoError(t, sess.Execute("help"))
	for _, want := range []string{"top <n>", "from [schema.]<table>", "bind <name> <value>", "raw <sql>"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestExecRequiresConnection(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)
	if err := sess.Execute("exec"); !errors.Is(err, errNotConnected) {
		t.Errorf("expected errNotConnected, got %v", err)
	}
	if err := sess.Execute("raw SELECT 1"); !errors.Is(err, errNotConnected) {
		t.Errorf("expected errNotConnected, got %v", err)
	}
	if err := sess.Execute("disconnect"); !errors.Is(err, errNotConnected) {
		t.Errorf("expected errNotConnected, got %v", err)
	}
}

// --- Helpers ---

func TestSplitQualified(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, q, n string
	}{
		{"Id", "", "Id"},
		{"a.Id", "a", "Id"},
		{"dbo.Widget", "dbo", "Widget"},
		{"[a.b]", "", "[a.b]"},
		{".Id", "", ".Id"},
		{"a.", "", "a."},
	}
	for _, tt := range tests {
		q, n := splitQualified(tt.in)
		if q != tt.q || n != tt.n {
			t.Errorf("splitQualified(%q) = (%q, %q), want (%q, %q)", tt.in, q, n, tt.q, tt.n)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, parseLiteral("5"), any(int64(5)))
	testutil.AssertEqual(t, parseLiteral("-2.5"), any(-2.5))
	testutil.AssertEqual(t, parseLiteral("TRUE"), any(true))
	testutil.AssertEqual(t, parseLiteral("'x'"), any("'x'"))
}
