package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatRFC3339Millis(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 5, 7, 8, 9, 123_456_789, time.FixedZone("CET", 3600))
	require.Equal(t, "2024-03-05T06:08:09.123Z", formatRFC3339Millis(ts))
}

func TestNewWriter_DropsEmptyStringsAndHonorsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWriter(&buf, false)
	log.Debug("hidden")
	log.Info("stage done", "table", "", "rows", 3)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "stage done")
	require.Contains(t, out, "rows=3")
	require.NotContains(t, out, "table=")

	buf.Reset()
	NewWriter(&buf, true).Debug("shown")
	require.Contains(t, buf.String(), "shown")
}
