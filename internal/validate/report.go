package validate

import (
	"fmt"

	"sirnaetl/internal/dataset"
	"sirnaetl/internal/transformer"
)

// Columns ReportTransformed looks at.
var (
	NumericColumns = []string{transformer.ConcentrationNew, transformer.DurationNew}
	KeyTextColumns = []string{"Target gene", "Cell or Organism used"}
)

// ColumnType is the observed kind of a column that should be numeric.
type ColumnType struct {
	Column  string
	Kind    dataset.Kind
	Present bool
	Numeric bool
}

// MissingCount is the number of missing values in a key column.
type MissingCount struct {
	Column  string
	Present bool
	Missing int
}

// Report is the outcome of ReportTransformed.
type Report struct {
	Rows    int
	Types   []ColumnType
	Missing []MissingCount
}

// Findings lists the things worth a warning: non-numeric or absent numeric
// columns and key columns with missing values.
func (r Report) Findings() []string {
	var out []string
	for _, t := range r.Types {
		switch {
		case !t.Present:
			out = append(out, fmt.Sprintf("column %q is absent", t.Column))
		case !t.Numeric:
			out = append(out, fmt.Sprintf("column %q is %s, not numeric", t.Column, t.Kind))
		}
	}
	for _, m := range r.Missing {
		if m.Present && m.Missing > 0 {
			out = append(out, fmt.Sprintf("column %q has %d missing values", m.Column, m.Missing))
		}
	}
	return out
}

// ReportTransformed describes the derived numeric columns and the missing
// counts of the key text columns. It never fails.
func ReportTransformed(d *dataset.Dataset) Report {
	r := Report{Rows: d.Len()}
	for _, name := range NumericColumns {
		c, ok := d.Column(name)
		r.Types = append(r.Types, ColumnType{Column: name, Kind: c.Kind, Present: ok, Numeric: ok && c.Kind.Numeric()})
	}
	for _, name := range KeyTextColumns {
		c, ok := d.Column(name)
		m := MissingCount{Column: name, Present: ok}
		if ok {
			m.Missing = c.MissingCount()
		}
		r.Missing = append(r.Missing, m)
	}
	return r
}

var _ SoftReport = ReportTransformed
