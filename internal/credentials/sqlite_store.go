package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads the first row of table access in a local SQLite file.
// The first four columns are host, port, user and password; the database
// name is always DefaultDatabase.
type SQLiteStore struct {
	Path string
}

// Resolve implements Resolver.
func (s SQLiteStore) Resolve(ctx context.Context) (Record, error) {
	fail := func(err error) (Record, error) {
		return Record{}, &Error{Reasons: []string{fmt.Sprintf("store %s: %v", s.Path, err)}, Err: err}
	}
	if _, err := os.Stat(s.Path); err != nil {
		return fail(err)
	}

	db, err := sql.Open("sqlite", "file:"+(&url.URL{Path: s.Path}).EscapedPath()+"?mode=ro")
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM access LIMIT 1")
	if err != nil {
		return fail(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fail(err)
	}
	if len(cols) < 4 {
		return fail(fmt.Errorf("table access has %d columns, want at least 4", len(cols)))
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fail(err)
		}
		return fail(errors.New("table access is empty"))
	}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return fail(err)
	}

	rec := Record{
		Host:     cell(raw[0]),
		Port:     cell(raw[1]),
		User:     cell(raw[2]),
		Password: cell(raw[3]),
		Database: DefaultDatabase,
	}
	if !rec.Complete() {
		return fail(fmt.Errorf("row is missing %v", rec.Missing()))
	}
	return rec, nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
