// Package diag provides the diagnostics shared across the pipeline: "did
// you mean" suggestions for unresolved references, and the validation hook
// the orchestrator drives its warning/error policy through.
package diag

import "sort"

// Suggest returns up to limit candidate names closest to name by Levenshtein
// distance, for TokenReferenceError's "Did you mean" hint. Candidates
// further than the distance threshold for name's length are dropped rather
// than always returning the closest few regardless of how distant they are.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name string
		dist int
	}

	threshold := distanceThreshold(name)
	var matches []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein(name, c)
		if d <= threshold {
			matches = append(matches, scored{c, d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// distanceThreshold scales the acceptable edit distance with the name's
// length — a one-letter typo in "colr.brand" should match "color.brand",
// but a short name shouldn't pull in unrelated long ones.
func distanceThreshold(s string) int {
	switch {
	case len(s) <= 4:
		return 1
	case len(s) <= 12:
		return 2
	default:
		return 3
	}
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)

	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[n]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
