// Package csv turns delimited spreadsheet exports into text datasets.
//
// Cells are kept verbatim except for the usual missing-value spellings, which
// become missing values. Header names are cleaned up so the fixed column
// lists used downstream match regardless of how the export encoded them.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"sirnaetl/internal/dataset"
)

// Options configures the parser. The zero value parses comma-separated input.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// NATokens overrides the set of cell spellings treated as missing. Nil
	// means DefaultNATokens. Empty cells are always missing.
	NATokens []string
}

// Parser parses delimited input according to Options.
type Parser struct {
	comma rune
	na    map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}
	tokens := opt.NATokens
	if tokens == nil {
		tokens = DefaultNATokens
	}
	na := make(map[string]struct{}, len(tokens)+1)
	na[""] = struct{}{}
	for _, t := range tokens {
		na[t] = struct{}{}
	}
	return &Parser{comma: comma, na: na}
}

// ForFormat returns a parser for a spreadsheet export format tag
// ("csv" or "tsv").
func ForFormat(format string) (*Parser, error) {
	switch format {
	case "", "csv":
		return NewParser(Options{}), nil
	case "tsv":
		return NewParser(Options{Comma: '\t'}), nil
	default:
		return nil, fmt.Errorf("csv: unsupported format %q", format)
	}
}

// IsMissing reports whether the raw cell s is read as a missing value.
func (p *Parser) IsMissing(s string) bool {
	_, ok := p.na[s]
	return ok
}

// Parse reads the whole input. The first record is the header; an input with
// no header at all is an error, a header with no rows is an empty dataset.
func (p *Parser) Parse(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header = NormalizeHeader(StripHeaderBOM(header))

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(rows)+1, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	d, err := dataset.FromRecords(header, rows, p.IsMissing)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return d, nil
}

// ParseBytes is Parse over an in-memory payload.
func (p *Parser) ParseBytes(b []byte) (*dataset.Dataset, error) {
	return p.Parse(bytes.NewReader(b))
}

func isBlankRecord(rec []string) bool {
	return len(rec) == 1 && rec[0] == ""
}
