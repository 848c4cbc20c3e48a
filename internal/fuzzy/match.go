package fuzzy

import (
	"sort"

	"github.com/garyellow/casmate/internal/stringutil"
)

// Candidate is one label to score, carrying the record it stands for.
// Candidates are passed as a slice so ties resolve by original order.
type Candidate[T any] struct {
	Label string
	Value T
}

// Match is a scored candidate.
type Match[T any] struct {
	Label string
	Score int
	Value T

	order int
}

// BestMatch returns the highest-scoring candidate at or above cutoff using WRatio.
// The boolean is false for an empty query, no candidates or no candidate
// reaching the cutoff.
func BestMatch[T any](query string, candidates []Candidate[T], cutoff int) (Match[T], bool) {
	ranked := Rank(query, candidates, WRatio, cutoff)
	if len(ranked) == 0 {
		var zero Match[T]
		return zero, false
	}
	return ranked[0], true
}

// TopMatches returns up to limit WRatio matches at or above cutoff, best first.
// A non-positive limit returns every match.
func TopMatches[T any](query string, candidates []Candidate[T], limit, cutoff int) []Match[T] {
	ranked := Rank(query, candidates, WRatio, cutoff)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Rank scores every candidate with scorer and returns those at or above cutoff.
//
// Query and labels are cleaned (lower-cased, punctuation stripped) before
// scoring. Ordering is score descending, then shorter label, then original
// candidate order, so equal inputs always rank identically.
func Rank[T any](query string, candidates []Candidate[T], scorer Scorer, cutoff int) []Match[T] {
	q := stringutil.Clean(query)
	if q == "" || len(candidates) == 0 {
		return nil
	}

	matches := make([]Match[T], 0, len(candidates))
	for i, c := range candidates {
		label := stringutil.Clean(c.Label)
		if label == "" {
			continue
		}
		score := scorer(q, label)
		if score < cutoff {
			continue
		}
		matches = append(matches, Match[T]{Label: c.Label, Score: score, Value: c.Value, order: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Label) != len(b.Label) {
			return len(a.Label) < len(b.Label)
		}
		return a.order < b.order
	})
	return matches
}
