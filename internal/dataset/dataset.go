// Package dataset implements the in-memory table the pipeline passes between
// stages: an ordered list of named, equal-length columns of tagged values.
//
// Datasets are treated as immutable. Every operation returns a new Dataset
// and never writes through to the receiver's columns, so a stage can hold on
// to its input while producing its output.
package dataset

import (
	"fmt"
	"slices"
)

// Column is a named sequence of values sharing one runtime Kind.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// MissingCount returns the number of missing values in the column.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Dataset is an ordered, named, equal-length columnar table.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Dataset from columns. It fails if column names repeat or
// column lengths differ.
func New(cols ...Column) (*Dataset, error) {
	d := &Dataset{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := d.index[c.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		if i == 0 {
			d.rows = len(c.Values)
		} else if len(c.Values) != d.rows {
			return nil, fmt.Errorf("dataset: column %q has %d values, want %d", c.Name, len(c.Values), d.rows)
		}
		d.index[c.Name] = len(d.cols)
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(cols ...Column) *Dataset {
	d, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return d
}

// FromRecords builds a text Dataset from a header and string rows. Cells for
// which isMissing returns true become missing values. Short rows are padded
// with missing values; extra cells are ignored.
func FromRecords(header []string, records [][]string, isMissing func(string) bool) (*Dataset, error) {
	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = Column{Name: name, Kind: Text, Values: make([]Value, len(records))}
	}
	for i, rec := range records {
		for j := range header {
			if j >= len(rec) || (isMissing != nil && isMissing(rec[j])) {
				continue
			}
			cols[j].Values[i] = TextOf(rec[j])
		}
	}
	return New(cols...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.cols) }

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d.rows == 0 }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. Callers must not modify the values.
func (d *Dataset) Columns() []Column { return slices.Clone(d.cols) }

// Has reports whether a column named name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.cols[i], true
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []Value {
	out := make([]Value, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Values[i]
	}
	return out
}

// Rename returns a dataset with columns renamed per mapping (old -> new).
// Names absent from the dataset are ignored.
func (d *Dataset) Rename(mapping map[string]string) (*Dataset, error) {
	cols := d.Columns()
	for i := range cols {
		if to, ok := mapping[cols[i].Name]; ok {
			cols[i].Name = to
		}
	}
	return New(cols...)
}

// Drop returns a dataset without the named columns. Names absent from the
// dataset are ignored.
func (d *Dataset) Drop(names ...string) *Dataset {
	cols := make([]Column, 0, len(d.cols))
	for _, c := range d.cols {
		if !slices.Contains(names, c.Name) {
			cols = append(cols, c)
		}
	}
	return MustNew(cols...)
}

// WithColumn returns a dataset with c appended, or replacing the column of
// the same name in place.
func (d *Dataset) WithColumn(c Column) (*Dataset, error) {
	cols := d.Columns()
	if i, ok := d.index[c.Name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Take returns the rows at the given indices, in that order.
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]Column, len(d.cols))
	for j, c := range d.cols {
		vals := make([]Value, len(rows))
		for k, i := range rows {
			vals[k] = c.Values[i]
		}
		cols[j] = Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	d2 := MustNew(cols...)
	if len(cols) == 0 {
		d2.rows = len(rows)
	}
	return d2
}

// Filter returns the rows for which keep returns true, preserving order.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	idx := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return d.Take(idx)
}

// Head returns the first n rows (all rows when n >= Len, none when n <= 0).
func (d *Dataset) Head(n int) *Dataset {
	n = max(0, min(n, d.rows))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.Take(idx)
}

// Equal reports whether two datasets have the same columns, kinds and values.
func (d *Dataset) Equal(o *Dataset) bool {
	if d.rows != o.rows || len(d.cols) != len(o.cols) {
		return false
	}
	for j, c := range d.cols {
		oc := o.cols[j]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		for i := range c.Values {
			if !c.Values[i].Equal(oc.Values[i]) {
				return false
			}
		}
	}
	return true
}
