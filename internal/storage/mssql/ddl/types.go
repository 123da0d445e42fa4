// Package ddl contains SQL Server-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical kind to a SQL Server column type. Unknown or empty
// kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BIT"
	case "float", "double", "float64":
		return "FLOAT"
	case "float32", "real":
		return "REAL"
	case "timestamp", "datetime":
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
