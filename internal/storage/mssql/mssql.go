// Package mssql is the SQL Server backend (github.com/microsoft/go-mssqldb,
// "sqlserver" driver).
package mssql

import (
	"context"
	"fmt"
	"net"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"

	"sirnaetl/internal/credentials"
	gddl "sirnaetl/internal/ddl"
	"sirnaetl/internal/storage"
	msddl "sirnaetl/internal/storage/mssql/ddl"
	"sirnaetl/internal/storage/sqldb"
)

// Kind is the registered storage kind.
const Kind = "mssql"

func init() {
	storage.Register(Kind, storage.Backend{Dialect: Dialect{}, Open: Open, NeedsCredentials: true})
}

// DSN renders a sqlserver:// URL for r.
func DSN(r credentials.Record) string {
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(r.User, r.Password),
		Host:   net.JoinHostPort(r.Host, r.Port),
	}
	q := url.Values{}
	q.Set("database", r.Database)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects with cfg.Credentials.
func Open(ctx context.Context, cfg storage.Config) (storage.Conn, error) {
	return sqldb.Open(ctx, "sqlserver", DSN(cfg.Credentials.WithDefaults()))
}

// Dialect is T-SQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                  { return Kind }
func (Dialect) MapType(kind string) string    { return msddl.MapType(kind) }
func (Dialect) QuoteIdent(name string) string { return msddl.QuoteIdent(name) }
func (Dialect) QuoteTable(fqn string) string  { return msddl.QuoteFQN(fqn) }
func (Dialect) Placeholder(i int) string      { return fmt.Sprintf("@p%d", i) }

func (Dialect) CreateTableSQL(t gddl.TableDef) (string, error) {
	return msddl.BuildCreateTableSQL(t)
}

func (d Dialect) TruncateSQL(table string) string { return "TRUNCATE TABLE " + d.QuoteTable(table) }

func (d Dialect) SampleSQL(table string, n int) string {
	return fmt.Sprintf("SELECT TOP %d * FROM %s", n, d.QuoteTable(table))
}

func (Dialect) ServerInfoSQL() string { return "SELECT @@VERSION, DB_NAME()" }

func (Dialect) SavepointSQL(name string) string  { return "SAVE TRANSACTION " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TRANSACTION " + name }

// ReleaseSQL is empty: T-SQL savepoints live until the transaction ends.
func (Dialect) ReleaseSQL(string) string { return "" }
