package httpds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(cfg Config) (*Client, *[]time.Duration) {
	c := NewClient(cfg)
	var waits []time.Duration
	c.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return c, &waits
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{MaxRetries: -3})
	require.Equal(t, 30*time.Second, c.httpClient.Timeout)
	require.Equal(t, 0, c.maxRetries)
	require.Equal(t, 200*time.Millisecond, c.initialBackoff)
	require.Equal(t, 5*time.Second, c.maxBackoff)
}

func TestGetBytes_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	c, waits := newTestClient(Config{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond, UserAgent: "sirnaetl-test"})
	b, err := c.GetBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(b))
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, "sirnaetl-test", agent.Load())
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *waits)
}

func TestGetBytes_FinalStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, _ := newTestClient(Config{MaxRetries: 5})
	_, err := c.GetBytes(context.Background(), srv.URL)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Status)
	require.Equal(t, int32(1), calls.Load())
}

func TestGet_ExhaustedRetriesReturnsLastError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, waits := newTestClient(Config{MaxRetries: 2})
	_, err := c.Get(context.Background(), srv.URL)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusTooManyRequests, se.Status)
	require.Len(t, *waits, 2)
}

func TestGet_EmptyURLAndCanceledContext(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	_, err := c.Get(context.Background(), "")
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Get(ctx, "http://127.0.0.1:1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{62, time.Second},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, backoffDuration(100*time.Millisecond, tt.attempt, time.Second), "attempt %d", tt.attempt)
	}
}

func TestWaitContext(t *testing.T) {
	t.Parallel()

	require.NoError(t, waitContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, waitContext(ctx, time.Hour), context.Canceled)
}
