package transformer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sirnaetl/internal/dataset"
)

// CastPolicy selects what Derive does when a derived token does not convert
// to its numeric type.
type CastPolicy int

const (
	// AbortOnCastError fails the whole stage with a *CastError.
	AbortOnCastError CastPolicy = iota
	// DropRowOnCastError removes the offending row and carries on.
	DropRowOnCastError
)

func (p CastPolicy) String() string {
	if p == DropRowOnCastError {
		return "drop"
	}
	return "abort"
}

// ParseCastPolicy maps "abort" and "drop" to a policy.
func ParseCastPolicy(s string) (CastPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return AbortOnCastError, nil
	case "drop":
		return DropRowOnCastError, nil
	}
	return AbortOnCastError, fmt.Errorf("unknown cast policy %q (want abort or drop)", s)
}

// CastError reports a derived token that is not a valid number of the
// target type.
type CastError struct {
	Column string
	Row    int
	Value  string // "" for a missing value
	Target dataset.Kind
	Err    error
}

func (e *CastError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cast %q row %d: missing value cannot become %s", e.Column, e.Row, e.Target)
	}
	return fmt.Sprintf("cast %q row %d: %q to %s: %v", e.Column, e.Row, e.Value, e.Target, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// DeriveStats describes what Derive did.
type DeriveStats struct {
	RowsIn         int
	DroppedNoMatch int // concentration or duration token missing
	DroppedCast    int // only under DropRowOnCastError
	RowsOut        int
	MissingSources []string
}

// plainNumber accepts digits, optionally followed by a point and more digits.
var plainNumber = regexp.MustCompile(`^\d+\.?\d*$`)

// ConcentrationToken returns the first space-separated token of s when it is
// a plain non-negative number ("5 mM" -> "5").
func ConcentrationToken(s string) (string, bool) {
	return matchNumber(firstToken(s))
}

// IDToken returns the text between the first "SM" and the next one, when it
// is a plain number ("SM12" -> "12").
func IDToken(s string) (string, bool) {
	parts := strings.SplitN(s, "SM", 3)
	if len(parts) < 2 {
		return "", false
	}
	return matchNumber(parts[1])
}

// DurationToken returns the first space-separated token of s verbatim. It is
// only checked by the integer cast.
func DurationToken(s string) (string, bool) {
	return firstToken(s), true
}

func firstToken(s string) string {
	tok, _, _ := strings.Cut(s, " ")
	return tok
}

func matchNumber(tok string) (string, bool) {
	if !plainNumber.MatchString(tok) {
		return "", false
	}
	return tok, true
}

type derivation struct {
	source, target string
	token          func(string) (string, bool)
	kind           dataset.Kind
	filter         bool // rows with no token are dropped before the cast
}

var derivations = []derivation{
	{source: ConcentrationColumn, target: ConcentrationNew, token: ConcentrationToken, kind: dataset.Float, filter: true},
	{source: KeyColumn, target: IDNew, token: IDToken, kind: dataset.Int},
	{source: DurationColumn, target: DurationNew, token: DurationToken, kind: dataset.Int, filter: true},
}

// Derive adds "Concentration new" (float), "id_" (int) and "Duration after
// transfection new" (int), then drops their source columns.
//
// Rows with no concentration or duration token are dropped. Rows with no id
// token are not: they reach the integer cast and are handled by policy like
// any other cast failure. A source column that is absent yields no derived
// column; the raw-data gate reports that.
func Derive(in *dataset.Dataset, policy CastPolicy) (*dataset.Dataset, DeriveStats, error) {
	stats := DeriveStats{RowsIn: in.Len()}

	type tokens struct {
		d    derivation
		vals []dataset.Value // text tokens or missing
	}
	var derived []tokens
	for _, d := range derivations {
		src, ok := in.Column(d.source)
		if !ok {
			stats.MissingSources = append(stats.MissingSources, d.source)
			continue
		}
		vals := make([]dataset.Value, len(src.Values))
		for i, v := range src.Values {
			if v.IsMissing() {
				continue
			}
			if tok, ok := d.token(v.String()); ok {
				vals[i] = dataset.TextOf(tok)
			}
		}
		derived = append(derived, tokens{d: d, vals: vals})
	}

	keep := make([]int, 0, in.Len())
	for i := 0; i < in.Len(); i++ {
		ok := true
		for _, t := range derived {
			if t.d.filter && t.vals[i].IsMissing() {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	stats.DroppedNoMatch = in.Len() - len(keep)

	cast := make([][]dataset.Value, len(derived))
	castOK := make([]bool, len(keep))
	for k := range castOK {
		castOK[k] = true
	}
	for j, t := range derived {
		cast[j] = make([]dataset.Value, len(keep))
		for k, i := range keep {
			v, err := castToken(t.vals[i], t.d.kind)
			if err == nil {
				cast[j][k] = v
				continue
			}
			if policy == AbortOnCastError {
				err.Column, err.Row = t.d.target, i
				return nil, stats, err
			}
			castOK[k] = false
		}
	}

	cols := in.Take(keep).Columns()
	for j, t := range derived {
		cols = append(cols, dataset.Column{Name: t.d.target, Kind: t.d.kind, Values: cast[j]})
	}
	out, err := dataset.New(cols...)
	if err != nil {
		return nil, stats, fmt.Errorf("derive: %w", err)
	}

	if policy == DropRowOnCastError {
		before := out.Len()
		out = out.Filter(func(row int) bool { return castOK[row] })
		stats.DroppedCast = before - out.Len()
	}

	var sources []string
	for _, t := range derived {
		sources = append(sources, t.d.source)
	}
	out = out.Drop(sources...)
	stats.RowsOut = out.Len()
	return out, stats, nil
}

func castToken(v dataset.Value, kind dataset.Kind) (dataset.Value, *CastError) {
	s, ok := v.Text()
	if !ok {
		return dataset.Value{}, &CastError{Target: kind}
	}
	switch kind {
	case dataset.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return dataset.Value{}, &CastError{Value: s, Target: kind, Err: err}
		}
		return dataset.FloatOf(f), nil
	case dataset.Int:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return dataset.Value{}, &CastError{Value: s, Target: kind, Err: err}
		}
		return dataset.IntOf(n), nil
	}
	return dataset.Value{}, &CastError{Value: s, Target: kind, Err: fmt.Errorf("unsupported target")}
}
