package csv

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultNATokens are the cell spellings read as missing, besides the empty
// string. Matching is exact.
var DefaultNATokens = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// NormalizeHeader trims and NFC-normalizes header names, names blank headers
// "Unnamed: <i>", and suffixes repeats as "<name>.1", "<name>.2", ...
func NormalizeHeader(in []string) []string {
	out := make([]string, len(in))
	used := make(map[string]bool, len(in))
	repeats := make(map[string]int)
	for i, h := range in {
		h = norm.NFC.String(strings.TrimSpace(h))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if used[name] {
			n := repeats[h]
			for used[name] {
				n++
				name = fmt.Sprintf("%s.%d", h, n)
			}
			repeats[h] = n
		}
		used[name] = true
		out[i] = name
	}
	return out
}
