package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sirnaetl/internal/dataset"
)

func col(name string, vals ...string) dataset.Column {
	c := dataset.Column{Name: name, Kind: dataset.Text, Values: make([]dataset.Value, len(vals))}
	for i, v := range vals {
		if v != "" {
			c.Values[i] = dataset.TextOf(v)
		}
	}
	return c
}

func TestRequire_Apply(t *testing.T) {
	t.Parallel()

	in := dataset.MustNew(
		col("gene", "TP53", "", "KRAS", "EGFR"),
		col("cell", "HeLa", "HeLa", "", "A549"),
		col("free", "", "", "", ""),
	)

	out, dropped := Require{Columns: []string{"gene", "cell", "not-there"}}.Apply(in)
	require.Equal(t, 2, dropped)
	require.Equal(t, 2, out.Len())
	require.Equal(t, "TP53", out.Row(0)[0].String())
	require.Equal(t, "EGFR", out.Row(1)[0].String())

	same, dropped := Require{Columns: []string{"absent"}}.Apply(in)
	require.Zero(t, dropped)
	require.Same(t, in, same)
}

func TestDropColumns_Apply(t *testing.T) {
	t.Parallel()

	in := dataset.MustNew(col("a", "1"), col("Trust", "x"), col("b", "2"))

	out, removed := DropColumns{Names: []string{"Reference", "Trust"}}.Apply(in)
	require.Equal(t, []string{"Trust"}, removed)
	require.Equal(t, []string{"a", "b"}, out.Names())

	again, removed := DropColumns{Names: []string{"Reference", "Trust"}}.Apply(out)
	require.Nil(t, removed)
	require.Same(t, out, again)
}
