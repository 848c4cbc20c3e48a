package resolver

import (
	"strings"

	"github.com/garyellow/casmate/internal/fuzzy"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/rag"
)

// keywordPool is how many BM25 hits and fuzzy titles are fused for a
// keyword suggestion list.
const keywordPool = 10

// Suggest returns up to the configured number of courses worth offering
// for text. Fuzzy title matches above the suggest cutoff come first; when
// there are none, BM25 keyword hits are used instead.
func (r *Resolver) Suggest(text string) []Suggestion {
	return r.suggestFrom(r.newQuery(text, nlu.Entities{}))
}

func (r *Resolver) suggestFrom(q *query) []Suggestion {
	text := strings.Join(q.expanded, " ")
	if text == "" {
		return nil
	}

	matches := q.fuzzy
	if !q.fuzzyTried && len(text) >= r.th.MinFuzzyQueryLen {
		matches = fuzzy.TopMatches(text, r.titleCands, 0, r.th.Suggest)
	}
	if len(matches) > 0 {
		out := make([]Suggestion, 0, r.th.SuggestionLimit)
		for _, m := range matches {
			out = append(out, r.courseSuggestion(m.Value, m.Score))
			if len(out) == r.th.SuggestionLimit {
				break
			}
		}
		return out
	}
	return r.keywordSuggestions(text)
}

// keywordSuggestions fuses the BM25 ranking with an unfiltered fuzzy
// ranking and keeps only courses that share at least one keyword.
func (r *Resolver) keywordSuggestions(text string) []Suggestion {
	if r.index == nil {
		return nil
	}
	hits, err := r.index.Search(text, keywordPool, rag.KindCourse)
	if err != nil || len(hits) == 0 {
		return nil
	}
	confidence := make(map[string]float32, len(hits))
	for _, h := range hits {
		confidence[h.ID] = h.Confidence
	}

	var fuzzyIDs []string
	for _, m := range fuzzy.TopMatches(text, r.titleCands, keywordPool, 0) {
		fuzzyIDs = append(fuzzyIDs, m.Value)
	}
	fused := rag.FuseRRF([]rag.Ranking{
		{IDs: rag.HitIDs(hits), Weight: rag.DefaultKeywordWeight},
		{IDs: fuzzyIDs, Weight: 1 - rag.DefaultKeywordWeight},
	}, 0)

	var out []Suggestion
	for _, f := range fused {
		conf, ok := confidence[f.ID]
		if !ok {
			continue
		}
		if _, known := r.cat.Course(f.ID); !known {
			continue
		}
		out = append(out, r.courseSuggestion(f.ID, int(conf*100)))
		if len(out) == r.th.SuggestionLimit {
			break
		}
	}
	return out
}
