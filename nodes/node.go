// Package nodes defines the inputs a StatementBuilder consumes: table
// descriptors and comparison operands.
package nodes

// Relation is a source a FROM clause can be rendered from.
type Relation interface {
	// Name returns the unescaped table name.
	Name() string
	// Schema returns the unescaped schema name, or "" when the table
	// should be referenced without a schema prefix.
	Schema() string
}

// Named is implemented by entity types that know their default table name.
// Implement it on the value receiver so the zero value can answer.
type Named interface {
	TableName() string
}
