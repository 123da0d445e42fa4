// Package validate holds the two checkpoints around the derive stage: a hard
// gate that stops the run, and a soft report that only describes the data.
package validate

import (
	"fmt"
	"strings"

	"sirnaetl/internal/dataset"
	"sirnaetl/internal/transformer"
)

// ValidationError is returned by the hard gate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// HardGate checks a dataset and returns an error when the run must stop.
type HardGate func(*dataset.Dataset) error

// SoftReport describes a dataset without ever failing.
type SoftReport func(*dataset.Dataset) Report

// ExpectedDerived are the columns ValidateRaw requires.
var ExpectedDerived = []string{transformer.ConcentrationNew, transformer.DurationNew}

// ValidateRaw fails when the dataset is empty or lacks any ExpectedDerived
// column. Call it wherever the derived columns are expected to exist.
func ValidateRaw(d *dataset.Dataset) error {
	var problems []string
	if d == nil || d.Empty() {
		problems = append(problems, "dataset is empty")
	}
	if d != nil {
		var missing []string
		for _, name := range ExpectedDerived {
			if !d.Has(name) {
				missing = append(missing, fmt.Sprintf("%q", name))
			}
		}
		if len(missing) > 0 {
			problems = append(problems, "missing columns "+strings.Join(missing, ", "))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

var _ HardGate = ValidateRaw
