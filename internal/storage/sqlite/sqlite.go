// Package sqlite is the embedded SQLite backend (modernc.org/sqlite, no cgo).
// It needs no credentials; the database file comes from storage.Config.Path.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	gddl "sirnaetl/internal/ddl"
	"sirnaetl/internal/storage"
	"sirnaetl/internal/storage/sqldb"
	sqliteddl "sirnaetl/internal/storage/sqlite/ddl"
)

// Kind is the registered storage kind.
const Kind = "sqlite"

func init() {
	storage.Register(Kind, storage.Backend{Dialect: Dialect{}, Open: Open})
}

// DSN turns a file path into a driver DSN with a busy timeout. ":memory:"
// and DSNs that already start with "file:" pass through.
func DSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

// Open connects to the file named by cfg.Path.
func Open(ctx context.Context, cfg storage.Config) (storage.Conn, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite: path must not be empty")
	}
	return sqldb.Open(ctx, "sqlite", DSN(cfg.Path))
}

// Dialect is SQLite's SQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                  { return Kind }
func (Dialect) MapType(kind string) string    { return sqliteddl.MapType(kind) }
func (Dialect) QuoteIdent(name string) string { return sqliteddl.QuoteIdent(name) }
func (Dialect) QuoteTable(fqn string) string  { return gddl.QuoteFQN(fqn, sqliteddl.QuoteIdent) }
func (Dialect) Placeholder(int) string        { return "?" }

func (Dialect) CreateTableSQL(t gddl.TableDef) (string, error) {
	return sqliteddl.BuildCreateTableSQL(t)
}

// TruncateSQL uses DELETE; SQLite has no TRUNCATE.
func (d Dialect) TruncateSQL(table string) string { return "DELETE FROM " + d.QuoteTable(table) }

func (d Dialect) SampleSQL(table string, n int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteTable(table), n)
}

func (Dialect) ServerInfoSQL() string { return "SELECT 'SQLite ' || sqlite_version(), 'main'" }

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }
