package ddl

// ColumnDef describes one column of a table definition.
//
// Name is the logical, unquoted column name; quoting happens at render time.
// SQLType is the dialect type (TEXT, INTEGER, ...).
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds a possibly schema-qualified table name ("schema.table") and
// its ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
