package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func textCol(name string, vals ...string) Column {
	c := Column{Name: name, Kind: Text, Values: make([]Value, len(vals))}
	for i, v := range vals {
		if v != "" {
			c.Values[i] = TextOf(v)
		}
	}
	return c
}

func TestNew_RejectsDuplicateAndRagged(t *testing.T) {
	t.Parallel()

	_, err := New(textCol("a", "1"), textCol("a", "2"))
	require.ErrorContains(t, err, "duplicate column")

	_, err = New(textCol("a", "1", "2"), textCol("b", "1"))
	require.ErrorContains(t, err, "has 1 values, want 2")
}

func TestFromRecords_PadsShortRowsAndMarksMissing(t *testing.T) {
	t.Parallel()

	d, err := FromRecords([]string{"x", "y"}, [][]string{{"1", "NA"}, {"2"}}, func(s string) bool { return s == "NA" })
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	y, ok := d.Column("y")
	require.True(t, ok)
	require.True(t, y.Values[0].IsMissing())
	require.True(t, y.Values[1].IsMissing())
	require.Equal(t, 2, y.MissingCount())
}

func TestOperations_DoNotAliasInput(t *testing.T) {
	t.Parallel()

	d := MustNew(textCol("a", "1", "2", "3"), textCol("b", "x", "y", "z"))

	renamed, err := d.Rename(map[string]string{"a": "A", "absent": "ignored"})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "b"}, renamed.Names())
	require.Equal(t, []string{"a", "b"}, d.Names())

	dropped := d.Drop("b", "absent")
	require.Equal(t, []string{"a"}, dropped.Names())
	require.Equal(t, 3, dropped.Len())

	filtered := d.Filter(func(i int) bool { return i != 1 })
	require.Equal(t, 2, filtered.Len())
	require.Equal(t, "z", filtered.Row(1)[1].String())
	require.Equal(t, 3, d.Len())

	require.Equal(t, 2, d.Head(2).Len())
	require.Equal(t, 3, d.Head(10).Len())
	require.Equal(t, 0, d.Head(-1).Len())

	replaced, err := d.WithColumn(Column{Name: "a", Kind: Int, Values: []Value{IntOf(1), IntOf(2), IntOf(3)}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, replaced.Names())
	c, _ := replaced.Column("a")
	require.Equal(t, Int, c.Kind)
	orig, _ := d.Column("a")
	require.Equal(t, Text, orig.Kind)

	_, err = d.WithColumn(textCol("c", "only-one"))
	require.Error(t, err)
}

func TestValue_StringAndAny(t *testing.T) {
	t.Parallel()

	require.Equal(t, "5.0", FloatOf(5).String())
	require.Equal(t, "0.25", FloatOf(0.25).String())
	require.Equal(t, "inf", FloatOf(math.Inf(1)).String())
	require.True(t, FloatOf(math.NaN()).IsMissing())
	require.Equal(t, "48", IntOf(48).String())
	require.Equal(t, "True", BoolOf(true).String())
	require.Equal(t, "", Null().String())
	require.Nil(t, Null().Any())
	require.Equal(t, int64(7), IntOf(7).Any())

	f, ok := IntOf(3).Float()
	require.True(t, ok)
	require.Equal(t, 3.0, f)
	_, ok = TextOf("3").Float()
	require.False(t, ok)
}

func TestInferTypes(t *testing.T) {
	t.Parallel()

	d := MustNew(
		textCol("ints", "1", "", "-3"),
		textCol("floats", "1", "2.5", ""),
		textCol("bools", "True", "false", ""),
		textCol("mixed", "1", "x", ""),
		textCol("empty", "", "", ""),
		textCol("hex", "0x10", "1", "2"),
		textCol("infs", "inf", "1", "2"),
	)

	got := InferTypes(d)
	kinds := map[string]Kind{}
	for _, c := range got.Columns() {
		kinds[c.Name] = c.Kind
	}
	require.Equal(t, map[string]Kind{
		"ints":   Int,
		"floats": Float,
		"bools":  Bool,
		"mixed":  Text,
		"empty":  Text,
		"hex":    Text,
		"infs":   Text,
	}, kinds)

	ints, _ := got.Column("ints")
	require.True(t, ints.Values[1].IsMissing())
	require.Equal(t, int64(-3), ints.Values[2].Any())

	require.True(t, InferTypes(got).Equal(got), "inference must be idempotent")
}

func TestInferTypes_NoFloatToIntNarrowing(t *testing.T) {
	t.Parallel()

	d := MustNew(Column{Name: "f", Kind: Float, Values: []Value{FloatOf(1), FloatOf(2)}})
	c, _ := InferTypes(d).Column("f")
	require.Equal(t, Float, c.Kind)
}
