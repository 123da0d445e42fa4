// Package storage loads a dataset into a relational table through a small,
// backend-agnostic connection contract.
//
// Backends (postgres, sqlite, mssql, mysql) live in subpackages and register
// themselves at init time; importing internal/storage/all enables all of
// them. Callers pick one by kind and never branch on the engine.
package storage

import (
	"context"

	"sirnaetl/internal/credentials"
	"sirnaetl/internal/schema"
)

// Conn is one open database connection.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	// Query returns every row of the result as driver values.
	Query(ctx context.Context, sql string, args ...any) ([][]any, error)
	Begin(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Tx is a transaction on a Conn.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Dialect is the SQL a backend speaks.
type Dialect interface {
	schema.Dialect

	Name() string
	QuoteIdent(name string) string
	QuoteTable(fqn string) string
	// Placeholder returns the bind marker for the i-th (1-based) argument.
	Placeholder(i int) string
	TruncateSQL(table string) string
	SampleSQL(table string, n int) string
	// ServerInfoSQL selects two values: server version and current database.
	ServerInfoSQL() string
	// SavepointSQL, RollbackToSQL and ReleaseSQL bracket each row insert.
	// An empty ReleaseSQL means the dialect has no release statement.
	SavepointSQL(name string) string
	RollbackToSQL(name string) string
	ReleaseSQL(name string) string
}

// Config carries what a backend needs to open a connection.
type Config struct {
	Kind        string
	Credentials credentials.Record
	// Path is the database file for file-based backends.
	Path string
}

// Opener opens a connection for a Config.
type Opener func(ctx context.Context, cfg Config) (Conn, error)

// Backend is a registered storage kind.
type Backend struct {
	Dialect Dialect
	Open    Opener
	// NeedsCredentials is false for file-based backends, which skip
	// credential resolution.
	NeedsCredentials bool
}
