// Package suggest finds likely intended names for misspelled ones.
package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
	"github.com/samber/lo"
)

// FindSimilar returns the candidates closest to name by edit distance, as
// long as that distance is at most 1 + len(name)/5. Every candidate tied at
// the smallest distance is returned, sorted.
func FindSimilar(name string, candidates []string) []string {
	cutoff := 1 + len(name)/5
	best := cutoff + 1
	var out []string
	for _, c := range lo.Uniq(candidates) {
		if c == name {
			continue
		}
		d := levenshtein.Distance(name, c, nil)
		switch {
		case d > cutoff || d > best:
			continue
		case d < best:
			best = d
			out = out[:0]
		}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DidYouMean formats a suggestion for the given matches, or returns "" when
// there are none. Ties are joined with "or".
func DidYouMean(matches []string) string {
	if len(matches) == 0 {
		return ""
	}
	quoted := lo.Map(matches, func(m string, _ int) string { return "'" + m + "'" })
	msg := "Did you mean " + quoted[0]
	for _, q := range quoted[1:] {
		msg += " or " + q
	}
	return msg + "?"
}
