// Package file implements a local-directory fetcher for offline runs. An
// export for id in format f is read from <dir>/<id>.<f>.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sirnaetl/internal/datasource"
)

// Dir serves exports from a directory.
type Dir struct{ dir string }

// NewDir returns a fetcher rooted at dir.
func NewDir(dir string) *Dir { return &Dir{dir: dir} }

// Path returns the file an export is read from.
func (d *Dir) Path(id, format string) string {
	return filepath.Join(d.dir, id+"."+format)
}

// Fetch reads the export file. A canceled context is reported without
// touching the filesystem. Every failure is a *datasource.FetchError that
// still matches os.ErrNotExist and friends via errors.Is.
func (d *Dir) Fetch(ctx context.Context, id, format string) ([]byte, error) {
	path := d.Path(id, format)
	fail := func(err error) error {
		return &datasource.FetchError{ID: id, Format: format, Location: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, fail(err)
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fail(fmt.Errorf("invalid dataset id %q", id))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fail(err)
	}
	return b, nil
}
