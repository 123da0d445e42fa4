package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"sirnaetl/internal/datasource"
	"sirnaetl/internal/datasource/httpds"
)

func TestExportURL(t *testing.T) {
	t.Parallel()

	f := New(httpds.NewClient(httpds.Config{}))
	require.Equal(t,
		"https://docs.google.com/spreadsheets/d/1scmkeENxadknow2rZ6H9LiG9m_BJmkBH/export?format=csv",
		f.ExportURL("1scmkeENxadknow2rZ6H9LiG9m_BJmkBH", "csv"))
}

func TestFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good/export":
			if r.URL.Query().Get("format") != "csv" {
				http.Error(w, "bad format", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("SMDB_id\nSM1\n"))
		case "/private/export":
			_, _ = w.Write([]byte("<!DOCTYPE html><html><body>Sign in</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New(httpds.NewClient(httpds.Config{}), WithBaseURL(srv.URL+"/"))

	b, err := f.Fetch(context.Background(), "good", "csv")
	require.NoError(t, err)
	require.Equal(t, "SMDB_id\nSM1\n", string(b))

	for _, id := range []string{"private", "missing", " "} {
		_, err := f.Fetch(context.Background(), id, "csv")
		var fe *datasource.FetchError
		require.ErrorAs(t, err, &fe, "id %q", id)
		require.Equal(t, id, fe.ID)
	}

	_, err = f.Fetch(context.Background(), "missing", "csv")
	var se *httpds.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.Status)
}
