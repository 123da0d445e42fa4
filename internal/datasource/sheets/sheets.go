// Package sheets downloads published Google Sheets through their export
// endpoint.
package sheets

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sirnaetl/internal/datasource"
	"sirnaetl/internal/datasource/httpds"
)

// DefaultBaseURL is the public spreadsheet endpoint.
const DefaultBaseURL = "https://docs.google.com/spreadsheets/d"

// Fetcher implements datasource.Fetcher over the export endpoint.
type Fetcher struct {
	client  *httpds.Client
	baseURL string
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithBaseURL points the fetcher at another endpoint (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// New returns a Fetcher using client for transport.
func New(client *httpds.Client, opts ...Option) *Fetcher {
	f := &Fetcher{client: client, baseURL: DefaultBaseURL}
	for _, o := range opts {
		o(f)
	}
	return f
}

// ExportURL returns <base>/<id>/export?format=<format>.
func (f *Fetcher) ExportURL(id, format string) string {
	return fmt.Sprintf("%s/%s/export?format=%s", f.baseURL, url.PathEscape(id), url.QueryEscape(format))
}

// Fetch downloads one export. Every failure is a *datasource.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, id, format string) ([]byte, error) {
	u := f.ExportURL(id, format)
	fail := func(err error) error {
		return &datasource.FetchError{ID: id, Format: format, Location: u, Err: err}
	}
	if strings.TrimSpace(id) == "" {
		return nil, fail(fmt.Errorf("empty dataset id"))
	}
	b, err := f.client.GetBytes(ctx, u)
	if err != nil {
		return nil, fail(err)
	}
	// A sheet that is not shared publicly answers 200 with a sign-in page.
	if looksLikeHTML(b) {
		return nil, fail(fmt.Errorf("response is an HTML page, not a %s export", format))
	}
	return b, nil
}

func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(b[:min(len(b), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
