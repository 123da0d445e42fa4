package dataset

import (
	"strconv"
	"strings"
)

// InferTypes narrows every text column to the most specific kind all of its
// non-missing values parse as: int, then float, then bool. Columns that are
// already typed, entirely missing, or hold any unparseable value keep their
// kind. Applying InferTypes to its own output is a no-op.
func InferTypes(d *Dataset) *Dataset {
	cols := d.Columns()
	for j, c := range cols {
		if c.Kind == Text {
			cols[j] = inferColumn(c)
		}
	}
	return MustNew(cols...)
}

func inferColumn(c Column) Column {
	seen := false
	for _, v := range c.Values {
		if !v.IsMissing() {
			seen = true
			break
		}
	}
	if !seen {
		return c
	}
	for _, parse := range []func(string) (Value, bool){ParseInt, ParseFloat, ParseBool} {
		if out, ok := convertAll(c.Values, parse); ok {
			return Column{Name: c.Name, Kind: out[firstPresent(out)].Kind(), Values: out}
		}
	}
	return c
}

func convertAll(in []Value, parse func(string) (Value, bool)) ([]Value, bool) {
	out := make([]Value, len(in))
	for i, v := range in {
		s, ok := v.Text()
		if !ok {
			continue
		}
		pv, ok := parse(s)
		if !ok {
			return nil, false
		}
		out[i] = pv
	}
	return out, true
}

func firstPresent(vs []Value) int {
	for i, v := range vs {
		if !v.IsMissing() {
			return i
		}
	}
	return 0
}

// ParseInt parses a base-10 integer with an optional sign.
func ParseInt(s string) (Value, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Value{}, false
	}
	return IntOf(n), true
}

// ParseFloat parses a plain decimal or exponent float. Hex floats, digit
// separators and the inf/nan spellings are rejected.
func ParseFloat(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, notFloatRune) >= 0 {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, false
	}
	return FloatOf(f), true
}

func notFloatRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		return false
	}
	return true
}

// ParseBool accepts true/false in any letter case.
func ParseBool(s string) (Value, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return BoolOf(true), true
	case "false":
		return BoolOf(false), true
	}
	return Value{}, false
}
