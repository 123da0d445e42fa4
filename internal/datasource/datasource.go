// Package datasource defines how the pipeline obtains raw tabular bytes for a
// published dataset identifier.
package datasource

import (
	"context"
	"fmt"
)

// Fetcher returns the raw export of the dataset identified by id in the
// given format tag (for example "csv").
type Fetcher interface {
	Fetch(ctx context.Context, id, format string) ([]byte, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, id, format string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id, format string) ([]byte, error) {
	return f(ctx, id, format)
}

// FetchError reports that a source was unreachable or returned something
// that is not a usable export.
type FetchError struct {
	ID       string
	Format   string
	Location string // URL or file path, when known
	Err      error
}

func (e *FetchError) Error() string {
	loc := e.Location
	if loc == "" {
		loc = e.ID
	}
	return fmt.Sprintf("fetch %s (%s): %v", loc, e.Format, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
