package nodes

// DefaultSchema is the schema a Table resolves to unless overridden.
const DefaultSchema = "dbo"

// Table describes a table for a FROM clause. The name is either assigned
// explicitly or bound from an entity type at construction time.
type Table struct {
	name        string
	defaultName string
	schema      string
}

var _ Relation = (*Table)(nil)

// NewTable creates a table descriptor with an explicit name and the default schema.
func NewTable(name string) *Table {
	return &Table{name: name, schema: DefaultSchema}
}

// TableFor creates a table descriptor whose default name comes from T.
func TableFor[T Named]() *Table {
	var zero T
	return &Table{defaultName: zero.TableName(), schema: DefaultSchema}
}

// Name returns the explicit name if one was set, otherwise the bound default.
func (t *Table) Name() string {
	if t.name != "" {
		return t.name
	}
	return t.defaultName
}

// Schema returns the schema name. It is DefaultSchema unless changed.
func (t *Table) Schema() string { return t.schema }

// SetName overrides the table name. An empty name restores the default.
func (t *Table) SetName(name string) *Table {
	t.name = name
	return t
}

// SetSchema overrides the schema name.
func (t *Table) SetSchema(schema string) *Table {
	t.schema = schema
	return t
}

// ClearSchema removes the schema so the table renders unqualified.
func (t *Table) ClearSchema() *Table {
	t.schema = ""
	return t
}
