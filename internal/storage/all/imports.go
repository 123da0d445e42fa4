// Package all registers every built-in storage backend. It exists for its
// side effects: a blank import makes the kinds "postgres", "sqlite", "mssql"
// and "mysql" available to storage.Lookup.
//
//	import _ "sirnaetl/internal/storage/all"
//
// A binary that needs fewer drivers can import the backend packages it wants
// directly instead.
package all

import (
	_ "sirnaetl/internal/storage/mssql"
	_ "sirnaetl/internal/storage/mysql"
	_ "sirnaetl/internal/storage/postgres"
	_ "sirnaetl/internal/storage/sqlite"
)
