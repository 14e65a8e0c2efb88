package rules

import (
	"sort"
	"strings"
)

// minSuggestDistance is the edit distance always accepted as a typo.
const minSuggestDistance = 2

// Suggest returns the registered names closest to name by edit distance,
// ignoring case. Names further away than a quarter of their length (and at
// least two edits) are not offered.
func (r *Registry) Suggest(name string) []string {
	target := strings.ToLower(name)
	row := make([]int, 0, len(target)+1)

	best := -1

	var out []string

	for candidate := range r.names {
		limit := max(minSuggestDistance, len(candidate)/4)

		d := distance(target, strings.ToLower(candidate), &row)
		if d > limit || (best >= 0 && d > best) {
			continue
		}

		if d < best || best < 0 {
			best = d
			out = out[:0]
		}

		out = append(out, candidate)
	}

	sort.Strings(out)

	return out
}

// distance is the Levenshtein distance between a and b, computed over runes
// with a single reusable row.
func distance(a, b string, row *[]int) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s2) == 0 {
		return len(s1)
	}

	column := (*row)[:0]
	for i := 0; i <= len(s1); i++ {
		column = append(column, i)
	}

	for j, r2 := range s2 {
		column[0] = j + 1
		diag := j

		for i, r1 := range s1 {
			old := column[i+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[i+1] = min(column[i+1]+1, column[i]+1, diag+cost)
			diag = old
		}
	}

	*row = column

	return column[len(s1)]
}
