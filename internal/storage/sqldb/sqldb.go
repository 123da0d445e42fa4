// Package sqldb adapts database/sql drivers (sqlite, sqlserver, mysql) to
// storage.Conn. Every Conn holds one dedicated connection so statements and
// the transaction run in the same session.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"sirnaetl/internal/storage"
)

// sessionCore is the subset of *sql.Conn the adapter uses.
type sessionCore interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// txCore is the subset of *sql.Tx the adapter uses.
type txCore interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

// Conn implements storage.Conn over one database/sql connection.
type Conn struct {
	session sessionCore
	closeDB func() error
}

var _ storage.Conn = (*Conn)(nil)

// Open opens driver with dsn, pings it and pins a single connection.
func Open(ctx context.Context, driver, dsn string) (*Conn, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}
	c, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: acquire connection: %w", driver, err)
	}
	return &Conn{session: c, closeDB: db.Close}, nil
}

// Exec runs a statement outside any transaction.
func (c *Conn) Exec(ctx context.Context, q string, args ...any) error {
	_, err := c.session.ExecContext(ctx, q, args...)
	return err
}

// Query returns all rows of q.
func (c *Conn) Query(ctx context.Context, q string, args ...any) ([][]any, error) {
	rows, err := c.session.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Begin starts a transaction on the pinned connection.
func (c *Conn) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := c.session.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Close releases the connection and the pool behind it.
func (c *Conn) Close(context.Context) error {
	err := c.session.Close()
	if c.closeDB != nil {
		if cerr := c.closeDB(); err == nil {
			err = cerr
		}
	}
	return err
}

// Tx implements storage.Tx over *sql.Tx.
type Tx struct{ tx txCore }

func (t *Tx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, q, args...)
	return err
}

func (t *Tx) Commit(context.Context) error   { return t.tx.Commit() }
func (t *Tx) Rollback(context.Context) error { return t.tx.Rollback() }

func collect(rows *sql.Rows) ([][]any, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}
