// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical kind to a SQLite column affinity.
//
//	int, bool      -> INTEGER (bools stored as 0/1)
//	float          -> REAL
//	date/time      -> TEXT (ISO-8601)
//	others         -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER"
	case "float", "double", "real", "float32", "float64":
		return "REAL"
	default:
		return "TEXT"
	}
}
