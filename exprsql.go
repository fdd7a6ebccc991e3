// Package exprsql assembles parameterized SELECT statements fragment by
// fragment, for use as the rendering backend of an expression translator.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/exprsql/builder (statement builder)
//   - github.com/bawdo/exprsql/nodes (table descriptors and operands)
package exprsql

import (
	"bytes"

	"github.com/bawdo/exprsql/builder"
	"github.com/bawdo/exprsql/nodes"
)

// --- Builder ---

// StatementBuilder appends SQL fragments to a single text buffer.
type StatementBuilder = builder.StatementBuilder

// Option configures a single builder call.
type Option = builder.Option

// Connective joins a filter condition to the previous ones.
type Connective = builder.Connective

// Connectives.
const (
	And = builder.And
	Or  = builder.Or
)

// ErrBufferUnderflow is reported when Truncate removes past the buffer start.
var ErrBufferUnderflow = builder.ErrBufferUnderflow

// NewBuilder creates a builder whose buffer starts with SELECT.
func NewBuilder() *builder.StatementBuilder {
	return builder.New()
}

// NewBuilderFrom creates a builder appending to an existing buffer.
func NewBuilderFrom(buf *bytes.Buffer) *builder.StatementBuilder {
	return builder.NewFrom(buf)
}

// Alias overrides the table alias for one call.
func Alias(name string) builder.Option {
	return builder.Alias(name)
}

// NoAlias renders one call without an alias.
func NoAlias() builder.Option {
	return builder.NoAlias()
}

// --- Tables ---

// Table describes a table for a FROM clause.
type Table = nodes.Table

// Relation is anything a FROM clause can name.
type Relation = nodes.Relation

// Named is implemented by entity types with a default table name.
type Named = nodes.Named

// NewTable creates a table descriptor with an explicit name.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// TableFor creates a table descriptor named after T.
func TableFor[T nodes.Named]() *nodes.Table {
	return nodes.TableFor[T]()
}

// --- Operands ---

// Operand is a comparison kind.
type Operand = nodes.Operand

// Comparison operands.
const (
	OpEqual              = nodes.OpEqual
	OpNotEqual           = nodes.OpNotEqual
	OpLessThan           = nodes.OpLessThan
	OpLessThanOrEqual    = nodes.OpLessThanOrEqual
	OpGreaterThan        = nodes.OpGreaterThan
	OpGreaterThanOrEqual = nodes.OpGreaterThanOrEqual
)
