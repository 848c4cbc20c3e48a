// Package fuzzy scores how similar two strings are on a 0-100 scale and
// ranks candidate labels against a query.
//
// Similarity is built on the InDel edit distance (insertions and deletions
// cost 1, a substitution costs 2), the same base the classic ratio,
// partial ratio, token sort, token set and weighted ratio scorers use.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Scorer compares two strings and returns a similarity in [0, 100].
type Scorer func(a, b string) int

// Ratio is the normalized InDel similarity of a and b.
// Either side empty scores 0.
func Ratio(a, b string) int {
	return round(ratio(a, b))
}

func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	lensum := len(a) + len(b)
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	if dist > lensum {
		dist = lensum
	}
	return 100 * float64(lensum-dist) / float64(lensum)
}

// PartialRatio scores the shorter string against the best-aligned window
// of the longer one, so "psychology" fully matches "social psychology".
func PartialRatio(a, b string) int {
	return round(partialRatio(a, b))
}

func partialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return ratio(shorter, longer)
	}
	if strings.Contains(longer, shorter) {
		return 100
	}

	best := 0.0
	n := len(shorter)
	for i := 0; i+n <= len(longer); i++ {
		if s := ratio(shorter, longer[i:i+n]); s > best {
			best = s
		}
	}
	return best
}

// TokenSortRatio compares the inputs after sorting their tokens,
// which makes word order irrelevant.
func TokenSortRatio(a, b string) int {
	return round(ratio(sortedJoin(a), sortedJoin(b)))
}

// TokenSetRatio compares the shared tokens with each side's remainder.
// When every token of one side appears in the other it scores 100.
func TokenSetRatio(a, b string) int {
	return round(tokenSet(a, b, ratio))
}

// WRatio is the weighted ratio: it picks the best of the plain, token and
// (for inputs of very different lengths) partial scorers, scaling the
// latter down so exact matches still rank first.
func WRatio(a, b string) int {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}

	base := ratio(a, b)
	la, lb := float64(len(a)), float64(len(b))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	if lenRatio < 1.5 {
		tsor := ratio(sortedJoin(a), sortedJoin(b)) * unbaseScale
		tser := tokenSet(a, b, ratio) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio >= 8 {
		partialScale = 0.6
	}
	partial := partialRatio(a, b) * partialScale
	ptsor := partialRatio(sortedJoin(a), sortedJoin(b)) * unbaseScale * partialScale
	ptser := tokenSet(a, b, partialRatio) * unbaseScale * partialScale
	return round(math.Max(math.Max(base, partial), math.Max(ptsor, ptser)))
}

// unbaseScale discounts token-based scores relative to the plain ratio.
const unbaseScale = 0.95

func tokenSet(a, b string, score func(x, y string) float64) float64 {
	setA := tokenSetOf(a)
	setB := tokenSetOf(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diffA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diffB, " "))

	best := score(t1, t2)
	if t0 != "" {
		best = math.Max(best, math.Max(score(t0, t1), score(t0, t2)))
	}
	return best
}

func tokenSetOf(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sortedJoin(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func round(f float64) int {
	r := int(math.Round(f))
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return r
}
