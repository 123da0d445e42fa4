// Package persist writes datasets to the flat-file outputs of a run: a
// delimited file and a parquet file. Writes are full overwrites; parent
// directories are created as needed.
package persist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output paths, relative to the run's output directory.
const (
	RawCSVPath           = "data/raw/raw_data.csv"
	ProcessedParquetPath = "data/processed/processed_data.parquet"
	RootParquetPath      = "new_data.parquet"
	FinalCSVPath         = "new_data.csv"
)

// writeFile writes through a temp file in the target directory and renames
// it into place, so a failed write never leaves a truncated output behind.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if err := write(tmp); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persist: rename into %s: %w", path, err)
	}
	return nil
}
