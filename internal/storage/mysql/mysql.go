// Package mysql is the MySQL backend (github.com/go-sql-driver/mysql).
package mysql

import (
	"context"
	"fmt"
	"net"

	gomysql "github.com/go-sql-driver/mysql"

	"sirnaetl/internal/credentials"
	gddl "sirnaetl/internal/ddl"
	"sirnaetl/internal/storage"
	myddl "sirnaetl/internal/storage/mysql/ddl"
	"sirnaetl/internal/storage/sqldb"
)

// Kind is the registered storage kind.
const Kind = "mysql"

func init() {
	storage.Register(Kind, storage.Backend{Dialect: Dialect{}, Open: Open, NeedsCredentials: true})
}

// DSN renders a driver DSN for r.
func DSN(r credentials.Record) string {
	c := gomysql.NewConfig()
	c.User = r.User
	c.Passwd = r.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(r.Host, r.Port)
	c.DBName = r.Database
	return c.FormatDSN()
}

// Open connects with cfg.Credentials.
func Open(ctx context.Context, cfg storage.Config) (storage.Conn, error) {
	return sqldb.Open(ctx, "mysql", DSN(cfg.Credentials.WithDefaults()))
}

// Dialect is MySQL's SQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                  { return Kind }
func (Dialect) MapType(kind string) string    { return myddl.MapType(kind) }
func (Dialect) QuoteIdent(name string) string { return myddl.QuoteIdent(name) }
func (Dialect) QuoteTable(fqn string) string  { return gddl.QuoteFQN(fqn, myddl.QuoteIdent) }
func (Dialect) Placeholder(int) string        { return "?" }

func (Dialect) CreateTableSQL(t gddl.TableDef) (string, error) {
	return myddl.BuildCreateTableSQL(t)
}

// TruncateSQL uses DELETE: TRUNCATE commits implicitly and could not be
// rolled back with the inserts.
func (d Dialect) TruncateSQL(table string) string { return "DELETE FROM " + d.QuoteTable(table) }

func (d Dialect) SampleSQL(table string, n int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteTable(table), n)
}

func (Dialect) ServerInfoSQL() string { return "SELECT VERSION(), DATABASE()" }

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }
