// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical kind to a Postgres column type.
//
//	"int"/"int64"/"bigint"     -> BIGINT
//	"integer"/"int32"          -> INTEGER
//	"float"/"float64"/"double" -> DOUBLE PRECISION
//	"float32"/"real"           -> REAL
//	"bool"/"boolean"           -> BOOLEAN
//	"timestamp"/"datetime"     -> TIMESTAMP
//	everything else            -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "int64", "bigint":
		return "BIGINT"
	case "integer", "int32":
		return "INTEGER"
	case "float", "float64", "double":
		return "DOUBLE PRECISION"
	case "float32", "real":
		return "REAL"
	case "bool", "boolean":
		return "BOOLEAN"
	case "timestamp", "datetime":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
