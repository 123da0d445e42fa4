// Package ddl is a small, dialect-neutral model of a CREATE TABLE statement.
//
// Dialect packages under internal/storage/<backend>/ddl supply identifier
// quoting and type names and either call BuildCreateTableSQL directly or wrap
// its output in their own guard.
package ddl

import (
	"fmt"
	"strings"
)

// Quoter renders one identifier segment for a dialect.
type Quoter func(string) string

// BuildCreateTableSQL renders
//
//	CREATE TABLE [IF NOT EXISTS] <fqn> (
//	  <col> <type> [NOT NULL],
//	  ...
//	);
//
// with every identifier passed through quote. Output depends only on its
// inputs, so identical definitions produce byte-identical statements.
func BuildCreateTableSQL(t TableDef, quote Quoter, ifNotExists bool) (string, error) {
	body, err := ColumnList(t, quote)
	if err != nil {
		return "", err
	}
	guard := ""
	if ifNotExists {
		guard = "IF NOT EXISTS "
	}
	return fmt.Sprintf("CREATE TABLE %s%s (\n  %s\n);", guard, QuoteFQN(t.FQN, quote), strings.Join(body, ",\n  ")), nil
}

// ColumnList validates t and renders its column definitions.
func ColumnList(t TableDef, quote Quoter) ([]string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return nil, fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("ddl: table %s: at least one column is required", fqn)
	}
	out := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("ddl: table %s: column %d has an empty name", fqn, i)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return nil, fmt.Errorf("ddl: table %s: column %s missing SQL type", fqn, c.Name)
		}
		def := quote(c.Name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		out = append(out, def)
	}
	return out, nil
}

// QuoteFQN quotes each dot-separated segment of a table name, skipping
// empty segments ("public..t" -> public, t).
func QuoteFQN(fqn string, quote Quoter) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}
