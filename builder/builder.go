// Package builder assembles a parameterized SELECT statement one fragment at
// a time. A StatementBuilder owns a single text buffer; each operation
// appends to it and returns the builder for chaining.
//
// The builder performs no validation of call order or SQL correctness.
// Identifiers are bracket-wrapped, values passed to Literal are written
// verbatim. Use BindParameter for anything that needs quoting.
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bawdo/exprsql/internal/quoting"
	"github.com/bawdo/exprsql/nodes"
)

// DefaultAlias is the table alias used when no Alias option is given.
const DefaultAlias = "a"

const (
	keywordSelect = "SELECT"
	keywordWhere  = "WHERE"
)

// ErrBufferUnderflow is returned when Truncate is asked to remove more
// characters than the buffer holds.
var ErrBufferUnderflow = errors.New("buffer underflow")

// TruncateError records a failed Truncate call.
type TruncateError struct {
	Requested int
	Available int
}

func (e *TruncateError) Error() string {
	return fmt.Sprintf("truncate %d characters: only %d available: %v", e.Requested, e.Available, ErrBufferUnderflow)
}

func (e *TruncateError) Unwrap() error { return ErrBufferUnderflow }

// Connective joins a filter condition to the ones before it.
type Connective int

const (
	And Connective = iota
	Or
)

func (c Connective) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// StatementBuilder renders SQL fragments into one ordered text stream.
// It is not safe for concurrent use.
type StatementBuilder struct {
	buf            *bytes.Buffer
	conditionsSeen bool
	err            error
}

// New creates a builder with a fresh buffer holding the SELECT keyword.
func New() *StatementBuilder {
	return NewFrom(&bytes.Buffer{})
}

// NewFrom creates a builder that appends to buf. A non-empty buf is left
// untouched so a fragment can be composed into an in-progress statement;
// an empty one receives the SELECT keyword first.
func NewFrom(buf *bytes.Buffer) *StatementBuilder {
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	if buf.Len() == 0 {
		buf.WriteString(keywordSelect)
	}
	return &StatementBuilder{buf: buf}
}

// Limit appends TOP count. It belongs directly after the SELECT keyword.
func (b *StatementBuilder) Limit(count int) *StatementBuilder {
	if b.err != nil {
		return b
	}
	fmt.Fprintf(b.buf, " TOP %d", count)
	return b
}

// BindParameter appends a named placeholder, @name.
func (b *StatementBuilder) BindParameter(name string) *StatementBuilder {
	if b.err != nil {
		return b
	}
	b.buf.WriteString(" @")
	b.buf.WriteString(name)
	return b
}

// Column appends an alias-qualified, bracket-escaped column reference.
func (b *StatementBuilder) Column(attribute string, opts ...Option) *StatementBuilder {
	if b.err != nil {
		return b
	}
	o := newOptions(opts)
	b.buf.WriteByte(' ')
	if !quoting.IsBlank(o.alias) {
		b.buf.WriteString(o.alias)
		b.buf.WriteByte('.')
	}
	b.buf.WriteString(quoting.Bracket(attribute))
	return b
}

// Literal appends the default text form of value, unquoted.
func (b *StatementBuilder) Literal(value any) *StatementBuilder {
	if b.err != nil {
		return b
	}
	b.buf.WriteByte(' ')
	fmt.Fprint(b.buf, value)
	return b
}

// Separator appends a comma.
func (b *StatementBuilder) Separator() *StatementBuilder {
	if b.err != nil {
		return b
	}
	b.buf.WriteByte(',')
	return b
}

// Truncate removes the last count characters (default 1). Asking for more
// than the buffer holds records a *TruncateError and leaves the buffer as is.
func (b *StatementBuilder) Truncate(count ...int) *StatementBuilder {
	if b.err != nil {
		return b
	}
	n := 1
	if len(count) > 0 {
		n = count[0]
	}
	if n < 0 {
		b.err = &TruncateError{Requested: n, Available: b.Len()}
		return b
	}
	data := b.buf.Bytes()
	end := len(data)
	for i := 0; i < n; i++ {
		if end == 0 {
			b.err = &TruncateError{Requested: n, Available: i}
			return b
		}
		_, size := utf8.DecodeLastRune(data[:end])
		end -= size
	}
	b.buf.Truncate(end)
	return b
}

// Source appends FROM [schema].[table] AS alias. The schema prefix is
// omitted when blank, the AS clause when the alias is blank.
func (b *StatementBuilder) Source(rel nodes.Relation, opts ...Option) *StatementBuilder {
	if b.err != nil {
		return b
	}
	o := newOptions(opts)
	b.buf.WriteString(" FROM ")
	if schema := rel.Schema(); !quoting.IsBlank(schema) {
		b.buf.WriteString(quoting.Bracket(schema))
		b.buf.WriteByte('.')
	}
	b.buf.WriteString(quoting.Bracket(rel.Name()))
	if !quoting.IsBlank(o.alias) {
		b.buf.WriteString(" AS ")
		b.buf.WriteString(o.alias)
	}
	return b
}

// Condition appends a filter comparing a column with a bound parameter.
// The first condition a builder emits always opens with WHERE; later ones
// use conn.
func (b *StatementBuilder) Condition(conn Connective, op nodes.Operand, attribute, param string, opts ...Option) *StatementBuilder {
	if b.err != nil {
		return b
	}
	b.appendComparison(conn, op, attribute, opts)
	return b.BindParameter(param)
}

// ConditionValue appends a filter comparing a column with a literal value.
func (b *StatementBuilder) ConditionValue(conn Connective, op nodes.Operand, attribute string, value any, opts ...Option) *StatementBuilder {
	if b.err != nil {
		return b
	}
	b.appendComparison(conn, op, attribute, opts)
	return b.Literal(value)
}

// And is Condition with the AND connective.
func (b *StatementBuilder) And(op nodes.Operand, attribute, param string, opts ...Option) *StatementBuilder {
	return b.Condition(And, op, attribute, param, opts...)
}

// AndValue is ConditionValue with the AND connective.
func (b *StatementBuilder) AndValue(op nodes.Operand, attribute string, value any, opts ...Option) *StatementBuilder {
	return b.ConditionValue(And, op, attribute, value, opts...)
}

// Or is Condition with the OR connective.
func (b *StatementBuilder) Or(op nodes.Operand, attribute, param string, opts ...Option) *StatementBuilder {
	return b.Condition(Or, op, attribute, param, opts...)
}

// OrValue is ConditionValue with the OR connective.
func (b *StatementBuilder) OrValue(op nodes.Operand, attribute string, value any, opts ...Option) *StatementBuilder {
	return b.ConditionValue(Or, op, attribute, value, opts...)
}

func (b *StatementBuilder) appendComparison(conn Connective, op nodes.Operand, attribute string, opts []Option) {
	keyword := conn.String()
	if !b.conditionsSeen {
		b.conditionsSeen = true
		keyword = keywordWhere
	}
	b.buf.WriteByte(' ')
	b.buf.WriteString(keyword)
	b.Column(attribute, opts...)
	b.buf.WriteByte(' ')
	b.buf.WriteString(op.SQL())
}

// FirstConditionEmitted reports whether a WHERE keyword has been written.
func (b *StatementBuilder) FirstConditionEmitted() bool { return b.conditionsSeen }

// Err returns the error recorded by a failed operation, if any.
func (b *StatementBuilder) Err() error { return b.err }

// Len returns the buffer length in characters.
func (b *StatementBuilder) Len() int { return utf8.RuneCount(b.buf.Bytes()) }

// SQL returns the statement text, or the recorded error.
func (b *StatementBuilder) SQL() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.buf.String(), nil
}

// String returns the buffer contents regardless of any recorded error.
func (b *StatementBuilder) String() string { return b.buf.String() }
