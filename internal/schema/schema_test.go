package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sirnaetl/internal/dataset"
	"sirnaetl/internal/ddl"
	pgddl "sirnaetl/internal/storage/postgres/ddl"
)

type pgDialect struct{}

func (pgDialect) MapType(kind string) string                    { return pgddl.MapType(kind) }
func (pgDialect) CreateTableSQL(t ddl.TableDef) (string, error) { return pgddl.BuildCreateTableSQL(t) }

func everyKind() *dataset.Dataset {
	return dataset.MustNew(
		dataset.Column{Name: "Target gene", Kind: dataset.Text, Values: []dataset.Value{dataset.TextOf("GFP"), dataset.Null()}},
		dataset.Column{Name: "id_", Kind: dataset.Int, Values: []dataset.Value{dataset.IntOf(1), dataset.IntOf(2)}},
		dataset.Column{Name: "Concentration new", Kind: dataset.Float, Values: []dataset.Value{dataset.FloatOf(5), dataset.Null()}},
		dataset.Column{Name: "active", Kind: dataset.Bool, Values: []dataset.Value{dataset.BoolOf(true), dataset.BoolOf(false)}},
		dataset.Column{Name: "Field8-notes", Kind: dataset.Missing, Values: []dataset.Value{dataset.Null(), dataset.Null()}},
	)
}

func TestInfer(t *testing.T) {
	t.Parallel()

	got, err := Infer(everyKind(), "greskova", pgDialect{})
	require.NoError(t, err)
	want := "CREATE TABLE IF NOT EXISTS greskova (\n" +
		"  \"Target gene\" TEXT,\n" +
		"  id_ BIGINT,\n" +
		"  \"Concentration new\" DOUBLE PRECISION,\n" +
		"  active BOOLEAN,\n" +
		"  \"Field8-notes\" TEXT\n" +
		");"
	require.Equal(t, want, got)
}

func TestInfer_Deterministic(t *testing.T) {
	t.Parallel()

	d := everyKind()
	first, err := Infer(d, "greskova", pgDialect{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Infer(d, "greskova", pgDialect{})
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestTableDef_UnmappedKindsFallBackToText(t *testing.T) {
	t.Parallel()

	def := TableDef(everyKind(), "greskova", pgddl.MapType)
	require.Equal(t, "greskova", def.FQN)
	require.Len(t, def.Columns, 5)
	for _, c := range def.Columns {
		require.True(t, c.Nullable, c.Name)
	}
	require.Equal(t, "TEXT", def.Columns[4].SQLType)

	for _, kind := range []string{dataset.Missing.String(), "", "jsonb", "decimal"} {
		require.Equal(t, "TEXT", pgddl.MapType(kind), kind)
	}
}

func TestInfer_EmptyTable(t *testing.T) {
	t.Parallel()

	_, err := Infer(everyKind(), "", pgDialect{})
	require.Error(t, err)
}
