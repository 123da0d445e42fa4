// Package postgres is the default storage backend, built on a single
// pgx.Conn. The loader's statements run on that connection; per-row
// savepoints keep one bad row from aborting the transaction.
package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sirnaetl/internal/credentials"
	gddl "sirnaetl/internal/ddl"
	"sirnaetl/internal/storage"
	pgddl "sirnaetl/internal/storage/postgres/ddl"
)

// Kind is the registered storage kind.
const Kind = "postgres"

func init() {
	storage.Register(Kind, storage.Backend{Dialect: Dialect{}, Open: Open, NeedsCredentials: true})
}

// pgConnLike is the subset of *pgx.Conn the adapter uses, so tests can run
// without a server.
type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// connect is replaced in tests.
var connect = func(ctx context.Context, dsn string) (pgConnLike, error) {
	return pgx.Connect(ctx, dsn)
}

// DSN renders a postgres:// URL for r. SSL is disabled, matching a local or
// private-network server.
func DSN(r credentials.Record) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(r.User, r.Password),
		Host:   net.JoinHostPort(r.Host, r.Port),
		Path:   "/" + r.Database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects with cfg.Credentials.
func Open(ctx context.Context, cfg storage.Config) (storage.Conn, error) {
	c, err := connect(ctx, DSN(cfg.Credentials.WithDefaults()))
	if err != nil {
		return nil, fmt.Errorf("postgres: connect %s:%s: %w", cfg.Credentials.Host, cfg.Credentials.Port, err)
	}
	return &Conn{conn: c}, nil
}

// Conn implements storage.Conn over pgx.
type Conn struct{ conn pgConnLike }

var _ storage.Conn = (*Conn)(nil)

func (c *Conn) Exec(ctx context.Context, q string, args ...any) error {
	_, err := c.conn.Exec(ctx, q, args...)
	return err
}

// Query collects every row via rows.Values.
func (c *Conn) Query(ctx context.Context, q string, args ...any) ([][]any, error) {
	rows, err := c.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}

func (c *Conn) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (c *Conn) Close(ctx context.Context) error { return c.conn.Close(ctx) }

// Tx wraps pgx.Tx.
type Tx struct{ tx pgx.Tx }

func (t *Tx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.Exec(ctx, q, args...)
	return err
}

func (t *Tx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// Dialect is PostgreSQL's SQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                  { return Kind }
func (Dialect) MapType(kind string) string    { return pgddl.MapType(kind) }
func (Dialect) QuoteIdent(name string) string { return pgddl.QuoteIdent(name) }
func (Dialect) QuoteTable(fqn string) string  { return gddl.QuoteFQN(fqn, pgddl.QuoteIdent) }
func (Dialect) Placeholder(i int) string      { return fmt.Sprintf("$%d", i) }

func (Dialect) CreateTableSQL(t gddl.TableDef) (string, error) {
	return pgddl.BuildCreateTableSQL(t)
}

func (d Dialect) TruncateSQL(table string) string { return "TRUNCATE TABLE " + d.QuoteTable(table) }

func (d Dialect) SampleSQL(table string, n int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteTable(table), n)
}

func (Dialect) ServerInfoSQL() string { return "SELECT version(), current_database()" }

func (Dialect) SavepointSQL(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackToSQL(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) ReleaseSQL(name string) string    { return "RELEASE SAVEPOINT " + name }
