package persist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"sirnaetl/internal/dataset"
	csvparser "sirnaetl/internal/parser/csv"
)

// WriteCSV writes d as comma-separated text with a header row and no index
// column. Missing values are empty cells.
func WriteCSV(path string, d *dataset.Dataset) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeCSV(w, d)
	})
}

// EncodeCSV writes d to w in the WriteCSV format.
func EncodeCSV(w io.Writer, d *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return err
	}
	rec := make([]string, d.Width())
	for i := 0; i < d.Len(); i++ {
		for j, v := range d.Row(i) {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a file written by WriteCSV and re-infers column kinds.
func ReadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	defer f.Close()
	d, err := csvparser.NewParser(csvparser.Options{}).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	return dataset.InferTypes(d), nil
}
