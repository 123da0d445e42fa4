package transformer

import (
	"fmt"

	"sirnaetl/internal/dataset"
)

// Merge suffixes for non-key columns present on both sides.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// JoinError reports that the join key is missing from one side.
type JoinError struct {
	Key  string
	Side string // "left" or "right"
	Err  error
}

func (e *JoinError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("join on %q: %s input: %v", e.Key, e.Side, e.Err)
	}
	return fmt.Sprintf("join on %q: %s input has no such column", e.Key, e.Side)
}

func (e *JoinError) Unwrap() error { return e.Err }

// MergeStats describes what Merge did.
type MergeStats struct {
	LeftRows, RightRows int
	Rows                int
	AliasRenamed        bool
	Suffixed            []string
}

// Merge inner-joins a and b on key. A column named KeyAlias in b is renamed
// to key first.
//
// Rows are matched on exact value equality; missing keys never match. Output
// rows follow a's order, with multiple matches in b's order. Columns are a's
// (key in place) followed by b's without the key. Non-key names present on
// both sides get LeftSuffix and RightSuffix.
func Merge(a, b *dataset.Dataset, key string) (*dataset.Dataset, MergeStats, error) {
	stats := MergeStats{LeftRows: a.Len(), RightRows: b.Len()}

	if b.Has(KeyAlias) && key != KeyAlias {
		if b.Has(key) {
			return nil, stats, &JoinError{Key: key, Side: "right", Err: fmt.Errorf("both %q and its alias %q are present", key, KeyAlias)}
		}
		renamed, err := b.Rename(map[string]string{KeyAlias: key})
		if err != nil {
			return nil, stats, &JoinError{Key: key, Side: "right", Err: err}
		}
		b = renamed
		stats.AliasRenamed = true
	}

	lk, ok := a.Column(key)
	if !ok {
		return nil, stats, &JoinError{Key: key, Side: "left"}
	}
	rk, ok := b.Column(key)
	if !ok {
		return nil, stats, &JoinError{Key: key, Side: "right"}
	}

	index := make(map[joinKey][]int, b.Len())
	for i, v := range rk.Values {
		if v.IsMissing() {
			continue
		}
		k := keyOf(v)
		index[k] = append(index[k], i)
	}

	var li, ri []int
	for i, v := range lk.Values {
		if v.IsMissing() {
			continue
		}
		for _, j := range index[keyOf(v)] {
			li = append(li, i)
			ri = append(ri, j)
		}
	}

	left := a.Take(li)
	right := b.Take(ri).Drop(key)

	overlap := make(map[string]bool)
	for _, n := range right.Names() {
		if left.Has(n) {
			overlap[n] = true
			stats.Suffixed = append(stats.Suffixed, n)
		}
	}

	cols := make([]dataset.Column, 0, left.Width()+right.Width())
	for _, c := range left.Columns() {
		if overlap[c.Name] {
			c.Name += LeftSuffix
		}
		cols = append(cols, c)
	}
	for _, c := range right.Columns() {
		if overlap[c.Name] {
			c.Name += RightSuffix
		}
		cols = append(cols, c)
	}

	out, err := dataset.New(cols...)
	if err != nil {
		return nil, stats, &JoinError{Key: key, Side: "right", Err: err}
	}
	stats.Rows = out.Len()
	return out, stats, nil
}

type joinKey struct {
	kind dataset.Kind
	text string
}

func keyOf(v dataset.Value) joinKey {
	return joinKey{kind: v.Kind(), text: v.String()}
}
