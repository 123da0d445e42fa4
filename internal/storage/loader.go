package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sirnaetl/internal/credentials"
	"sirnaetl/internal/dataset"
	"sirnaetl/internal/schema"
)

// ErrEmptyDataset is returned (wrapped in a *LoadError) for a dataset with
// no rows. Nothing is connected or written.
var ErrEmptyDataset = errors.New("dataset is empty")

// SampleRows is how many rows are read back after a load.
const SampleRows = 2

// LoadError reports a failed load step. The table is left as it was before
// the load started, except that a created table stays.
type LoadError struct {
	Step  string
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Table, e.Step, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadResult describes a completed load.
type LoadResult struct {
	Table         string
	ServerVersion string
	Database      string
	CreateSQL     string
	RowsAttempted int
	RowsInserted  int
	RowsFailed    int
	RowsInTable   int64
	Sample        [][]any
}

// Loader replaces the contents of a table with (a prefix of) a dataset.
type Loader struct {
	backend Backend
	creds   credentials.Resolver
	path    string
	log     *slog.Logger
}

// NewLoader builds a Loader. creds is consulted on every Load when the
// backend needs credentials; path is passed to file-based backends.
func NewLoader(b Backend, creds credentials.Resolver, path string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{backend: b, creds: creds, path: path, log: log}
}

// Load writes up to rowCap rows of d into table:
//
//	a. connect and read server version and current database
//	b. create the table if it does not exist
//	c. truncate it
//	d. insert rows one at a time; a failing row is logged and skipped
//	e. commit
//	f. read back the row count and a small sample
//
// A failure in a, b or c, or during commit, rolls back and returns a
// *LoadError. The connection is closed on every path. Credential resolution
// failures are returned as they are (a *credentials.Error), not as a
// *LoadError, so callers can tell a misconfigured run from a failed write.
func (l *Loader) Load(ctx context.Context, d *dataset.Dataset, table string, rowCap int) (LoadResult, error) {
	res := LoadResult{Table: table}
	fail := func(step string, err error) (LoadResult, error) {
		return res, &LoadError{Step: step, Table: table, Err: err}
	}
	if d == nil || d.Empty() {
		return fail("precheck", ErrEmptyDataset)
	}
	if strings.TrimSpace(table) == "" {
		return fail("precheck", errors.New("table name must not be empty"))
	}
	rowCap = max(rowCap, 0)

	cfg := Config{Kind: l.backend.Dialect.Name(), Path: l.path}
	if l.backend.NeedsCredentials {
		if l.creds == nil {
			return res, &credentials.Error{Reasons: []string{"no credential resolver configured"}}
		}
		rec, err := l.creds.Resolve(ctx)
		if err != nil {
			return res, err
		}
		cfg.Credentials = rec
		l.log.Debug("resolved credentials", "creds", rec)
	}

	dialect := l.backend.Dialect
	createSQL, err := schema.Infer(d, table, dialect)
	if err != nil {
		return fail("schema", err)
	}
	res.CreateSQL = createSQL

	conn, err := l.backend.Open(ctx, cfg)
	if err != nil {
		return fail("connect", err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			l.log.Warn("close connection", "error", cerr)
		}
	}()

	info, err := conn.Query(ctx, dialect.ServerInfoSQL())
	if err != nil {
		return fail("validate connection", err)
	}
	if len(info) > 0 && len(info[0]) >= 2 {
		res.ServerVersion = ShortVersion(cellString(info[0][0]))
		res.Database = cellString(info[0][1])
	}
	l.log.Info("connected", "backend", dialect.Name(), "server", res.ServerVersion, "database", res.Database)

	if err := conn.Exec(ctx, createSQL); err != nil {
		return fail("create table", err)
	}
	l.log.Debug("ensured table", "table", table, "sql", createSQL)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fail("begin", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := tx.Rollback(context.WithoutCancel(ctx)); rerr != nil {
			l.log.Warn("rollback", "error", rerr)
		} else {
			l.log.Info("rolled back", "table", table)
		}
	}()

	if err := tx.Exec(ctx, dialect.TruncateSQL(table)); err != nil {
		return fail("truncate", err)
	}

	rows := d.Head(rowCap)
	insertSQL := InsertSQL(dialect, table, rows.Names())
	for i := 0; i < rows.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return fail("insert", err)
		}
		res.RowsAttempted++
		if err := l.insertRow(ctx, tx, insertSQL, i, rows.Row(i)); err != nil {
			if errors.Is(err, errAborted) {
				return fail("insert", err)
			}
			res.RowsFailed++
			l.log.Warn("row insert failed, skipping", "row", i, "error", err)
			continue
		}
		res.RowsInserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return fail("commit", err)
	}
	committed = true
	l.log.Info("committed", "table", table, "inserted", res.RowsInserted, "failed", res.RowsFailed, "skipped_by_cap", d.Len()-res.RowsAttempted)

	count, err := conn.Query(ctx, "SELECT COUNT(*) FROM "+dialect.QuoteTable(table))
	if err != nil {
		l.log.Warn("read back row count", "error", err)
		return res, nil
	}
	if len(count) > 0 && len(count[0]) > 0 {
		res.RowsInTable = cellInt(count[0][0])
	}
	sample, err := conn.Query(ctx, dialect.SampleSQL(table, SampleRows))
	if err != nil {
		l.log.Warn("read back sample", "error", err)
		return res, nil
	}
	res.Sample = sample
	l.log.Info("table contents", "table", table, "rows", res.RowsInTable)
	for _, row := range sample {
		l.log.Info("sample row", "values", row[:min(3, len(row))])
	}
	return res, nil
}

// errAborted marks a row failure the transaction cannot recover from.
var errAborted = errors.New("transaction aborted")

func (l *Loader) insertRow(ctx context.Context, tx Tx, insertSQL string, i int, row []dataset.Value) error {
	d := l.backend.Dialect
	const sp = "sirnaetl_row"
	args := make([]any, len(row))
	for j, v := range row {
		args[j] = v.Any()
	}
	if err := tx.Exec(ctx, d.SavepointSQL(sp)); err != nil {
		return fmt.Errorf("%w: savepoint before row %d: %v", errAborted, i, err)
	}
	if err := tx.Exec(ctx, insertSQL, args...); err != nil {
		if rerr := tx.Exec(ctx, d.RollbackToSQL(sp)); rerr != nil {
			return fmt.Errorf("%w: rollback to savepoint after row %d: %v (insert: %v)", errAborted, i, rerr, err)
		}
		return err
	}
	if rel := d.ReleaseSQL(sp); rel != "" {
		if err := tx.Exec(ctx, rel); err != nil {
			return fmt.Errorf("%w: release savepoint after row %d: %v", errAborted, i, err)
		}
	}
	return nil
}

// InsertSQL renders a single-row INSERT for the given columns.
func InsertSQL(d Dialect, table string, columns []string) string {
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = d.QuoteIdent(c)
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.QuoteTable(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// ShortVersion trims a server version banner to its first comma-separated
// segment and first line.
func ShortVersion(v string) string {
	v, _, _ = strings.Cut(v, ",")
	v, _, _ = strings.Cut(v, "\n")
	return strings.TrimSpace(v)
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func cellInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		var n int64
		_, _ = fmt.Sscan(string(x), &n)
		return n
	case string:
		var n int64
		_, _ = fmt.Sscan(x, &n)
		return n
	}
	return 0
}
