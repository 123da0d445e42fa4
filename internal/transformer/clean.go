package transformer

import (
	"sirnaetl/internal/dataset"
	"sirnaetl/internal/transformer/builtin"
)

// CleanStats describes what Clean removed.
type CleanStats struct {
	ColumnsDropped []string
	RowsDropped    int
}

// Clean drops DroppedColumns, drops rows missing any RequiredColumns value,
// then narrows text columns to the most specific kind they parse as. Listed
// columns that are absent are skipped. Clean(Clean(d)) equals Clean(d).
func Clean(in *dataset.Dataset) (*dataset.Dataset, CleanStats) {
	var stats CleanStats
	var out *dataset.Dataset
	out, stats.ColumnsDropped = builtin.DropColumns{Names: DroppedColumns}.Apply(in)
	out, stats.RowsDropped = builtin.Require{Columns: RequiredColumns}.Apply(out)
	return dataset.InferTypes(out), stats
}
