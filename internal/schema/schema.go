// Package schema infers a destination table from a dataset's column kinds.
package schema

import (
	"fmt"

	"sirnaetl/internal/dataset"
	"sirnaetl/internal/ddl"
)

// Dialect maps logical kinds to column types and renders an idempotent
// CREATE TABLE for one database engine.
type Dialect interface {
	// MapType maps a logical kind name ("int", "float", "bool", "text", ...)
	// to a column type. Unknown names map to the dialect's text type.
	MapType(kind string) string
	CreateTableSQL(t ddl.TableDef) (string, error)
}

// TableDef returns one nullable column per dataset column, in dataset order,
// typed via mapType.
func TableDef(d *dataset.Dataset, table string, mapType func(string) string) ddl.TableDef {
	t := ddl.TableDef{FQN: table}
	for _, c := range d.Columns() {
		t.Columns = append(t.Columns, ddl.ColumnDef{
			Name:     c.Name,
			SQLType:  mapType(c.Kind.String()),
			Nullable: true,
		})
	}
	return t
}

// Infer returns the create-if-not-exists statement for loading d into table.
func Infer(d *dataset.Dataset, table string, dialect Dialect) (string, error) {
	stmt, err := dialect.CreateTableSQL(TableDef(d, table, dialect.MapType))
	if err != nil {
		return "", fmt.Errorf("schema: %w", err)
	}
	return stmt, nil
}
