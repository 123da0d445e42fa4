package ddl

import (
	"regexp"
	"strings"

	gddl "sirnaetl/internal/ddl"
)

var plainIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reserved lists keywords that cannot be used as bare column names.
var reserved = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true, "array": true,
	"as": true, "asc": true, "both": true, "case": true, "cast": true, "check": true,
	"collate": true, "column": true, "constraint": true, "create": true, "default": true,
	"desc": true, "distinct": true, "do": true, "else": true, "end": true, "except": true,
	"false": true, "for": true, "foreign": true, "from": true, "grant": true, "group": true,
	"having": true, "in": true, "into": true, "is": true, "join": true, "leading": true,
	"limit": true, "not": true, "null": true, "offset": true, "on": true, "only": true,
	"or": true, "order": true, "primary": true, "references": true, "select": true,
	"table": true, "then": true, "to": true, "true": true, "union": true, "unique": true,
	"user": true, "using": true, "when": true, "where": true, "with": true,
}

// QuoteIdent double-quotes an identifier unless it is a plain lower-case
// name that is not reserved. Names with spaces, hyphens or upper case are
// always quoted, which also keeps their case.
//
//	id_          -> id_
//	Target gene  -> "Target gene"
//	weird"name   -> "weird""name"
func QuoteIdent(id string) string {
	if plainIdent.MatchString(id) && !reserved[id] {
		return id
	}
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent, true)
}
