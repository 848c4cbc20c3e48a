package rag

import (
	"cmp"
	"slices"
)

const (
	// RRFConstant is the k in the RRF formula 1 / (k + rank).
	RRFConstant = 60

	// DefaultKeywordWeight is the weight of the BM25 ranking when fused with
	// a fuzzy title ranking.
	DefaultKeywordWeight = 0.4
)

// Ranking is a list of document IDs, best first, with its fusion weight.
type Ranking struct {
	IDs    []string
	Weight float64
}

// Fused is one document after fusion.
type Fused struct {
	ID    string
	Score float64 // combined RRF score
	Ranks []int   // 1-indexed rank in each input ranking, 0 when absent
}

// FuseRRF combines rankings with Reciprocal Rank Fusion:
//
//	score(d) = Σ w_i / (k + rank_i)
//
// Duplicate IDs inside one ranking count once, at their best rank. Equal
// scores keep first-seen order. topN <= 0 returns everything.
func FuseRRF(rankings []Ranking, topN int) []Fused {
	byID := make(map[string]*Fused)
	var order []*Fused

	for ri, r := range rankings {
		w := min(max(r.Weight, 0), 1)
		for i, id := range r.IDs {
			f, ok := byID[id]
			if !ok {
				f = &Fused{ID: id, Ranks: make([]int, len(rankings))}
				byID[id] = f
				order = append(order, f)
			}
			if f.Ranks[ri] != 0 {
				continue
			}
			rank := i + 1
			f.Ranks[ri] = rank
			f.Score += w / float64(RRFConstant+rank)
		}
	}

	out := make([]Fused, len(order))
	for i, f := range order {
		out[i] = *f
	}
	slices.SortStableFunc(out, func(a, b Fused) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// HitIDs returns the document IDs of hits in rank order.
func HitIDs(hits []Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}
