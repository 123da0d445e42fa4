// Package builtin contains small dataset steps the transforms are built from.
package builtin

import "sirnaetl/internal/dataset"

// Require removes every row that is missing a value in any of Columns.
// Columns absent from the dataset are not checked.
type Require struct {
	Columns []string
}

// Apply returns the filtered dataset and the number of rows removed.
func (r Require) Apply(in *dataset.Dataset) (*dataset.Dataset, int) {
	var checked []dataset.Column
	for _, name := range r.Columns {
		if c, ok := in.Column(name); ok {
			checked = append(checked, c)
		}
	}
	if len(checked) == 0 {
		return in, 0
	}
	out := in.Filter(func(row int) bool {
		for _, c := range checked {
			if c.Values[row].IsMissing() {
				return false
			}
		}
		return true
	})
	return out, in.Len() - out.Len()
}
