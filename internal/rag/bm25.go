// Package rag provides keyword retrieval over catalog titles.
// Uses BM25 over stemmed title tokens to suggest courses and programs when
// fuzzy title matching finds nothing.
package rag

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/iwilltry42/bm25-go/bm25"
	"github.com/kljensen/snowball"

	"github.com/garyellow/casmate/internal/stringutil"
)

// Kind says what a document in the index describes.
type Kind string

const (
	KindCourse  Kind = "course"
	KindProgram Kind = "program"
)

// Doc is one indexed title.
type Doc struct {
	ID    string
	Kind  Kind
	Title string
}

// Hit is a BM25 search result.
type Hit struct {
	Doc
	Score      float64 // BM25 score (higher is better)
	Rank       int     // 1-indexed
	Confidence float32 // rank-based, see rankConfidence
}

// TitleIndex is an immutable BM25 index. Build a new one when the catalog
// changes; BM25 needs every document for IDF, so there is no incremental add.
type TitleIndex struct {
	okapi *bm25.BM25Okapi
	docs  []Doc
}

// NewTitleIndex builds the index. Docs with no indexable tokens are kept in
// place so document positions line up with BM25 score positions.
func NewTitleIndex(docs []Doc) (*TitleIndex, error) {
	idx := &TitleIndex{docs: slices.Clone(docs)}
	if len(docs) == 0 {
		return idx, nil
	}

	corpus := make([]string, len(docs))
	for i, d := range docs {
		corpus[i] = d.Title
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	okapi, err := bm25.NewBM25Okapi(corpus, Tokenize, 1.5, 0.75, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create BM25 index: %w", err)
	}
	idx.okapi = okapi
	return idx, nil
}

// Len returns the number of indexed documents.
func (idx *TitleIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.docs)
}

// Search returns up to topN hits with a positive score, best first.
// Equal scores keep document order. kinds narrows the result; none means all.
func (idx *TitleIndex) Search(query string, topN int, kinds ...Kind) ([]Hit, error) {
	if idx == nil || idx.okapi == nil {
		return nil, nil
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring failed: %w", err)
	}

	var hits []Hit
	for i, score := range scores {
		if score <= 0 || i >= len(idx.docs) {
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, idx.docs[i].Kind) {
			continue
		}
		hits = append(hits, Hit{Doc: idx.docs[i], Score: score})
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if topN > 0 && len(hits) > topN {
		hits = hits[:topN]
	}
	for i := range hits {
		hits[i].Rank = i + 1
		hits[i].Confidence = rankConfidence(hits[i].Rank)
	}
	return hits, nil
}

// rankConfidence maps a BM25 rank to a 0-1 confidence.
// BM25 scores are unbounded and query-dependent, so rank is the proxy.
//
// Formula: 1 / (1 + 0.05 * rank)
//   - rank 1 → 0.95
//   - rank 5 → 0.80
//   - rank 10 → 0.67
func rankConfidence(rank int) float32 {
	if rank <= 0 {
		return 0
	}
	return float32(1.0 / (1.0 + 0.05*float64(rank)))
}

var indexStopwords = stringutil.NewStopwordSet(stringutil.Normalizer{},
	"a", "an", "the", "of", "in", "on", "to", "and", "or", "for", "with", "at", "by",
	"what", "which", "who", "how", "is", "are", "does", "do", "many", "about",
	"ano", "po", "ang", "ng", "sa", "mga", "ba",
)

// Tokenize cleans text, drops function words and stems each token with the
// English snowball stemmer, so "programming" and "program" share a term.
func Tokenize(text string) []string {
	tokens := stringutil.StripStopwords(stringutil.Tokenize(stringutil.Clean(text)), indexStopwords)
	out := tokens[:0]
	for _, tok := range tokens {
		stemmed, err := snowball.Stem(tok, "english", true)
		if err != nil || stemmed == "" {
			stemmed = tok
		}
		out = append(out, stemmed)
	}
	return out
}
