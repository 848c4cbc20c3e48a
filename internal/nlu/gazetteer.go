package nlu

import (
	"sort"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/garyellow/casmate/internal/stringutil"
)

// Entry is one phrase that names a catalog entity.
type Entry struct {
	ID    string // catalog ID of the entity
	Name  string // canonical display name
	Alias bool   // phrase came from the alias table
	text  string // normalized phrase
}

// Hit is an entry found in a piece of normalized text.
type Hit struct {
	Entry
	Phrase     string
	Start, End int
}

// Gazetteer finds known phrases in normalized text with a single
// Aho-Corasick pass. Matches are leftmost-longest and never overlap.
type Gazetteer struct {
	ac      ahocorasick.AhoCorasick
	entries []Entry // indexed by pattern
	index   map[string]int
}

// NewGazetteer normalizes every phrase with n and builds the automaton.
// When two entries share a phrase the first one wins.
func NewGazetteer(n stringutil.Normalizer, entries []Entry) *Gazetteer {
	g := &Gazetteer{index: make(map[string]int, len(entries))}
	patterns := make([]string, 0, len(entries))
	for _, e := range entries {
		e.text = n.Normalize(e.text)
		if _, dup := g.index[e.text]; dup || e.text == "" {
			continue
		}
		g.index[e.text] = len(g.entries)
		patterns = append(patterns, e.text)
		g.entries = append(g.entries, e)
	}
	if len(patterns) == 0 {
		return g
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	g.ac = builder.Build(patterns)
	return g
}

// Phrase builds an Entry for NewGazetteer.
func Phrase(id, name, phrase string, alias bool) Entry {
	return Entry{ID: id, Name: name, Alias: alias, text: phrase}
}

// Len returns the number of distinct phrases.
func (g *Gazetteer) Len() int { return len(g.entries) }

// FindAll returns every whole-word hit in text, left to right.
// text must already be normalized with the same Normalizer.
func (g *Gazetteer) FindAll(text string) []Hit {
	if len(g.entries) == 0 || text == "" {
		return nil
	}
	var hits []Hit
	for _, m := range g.ac.FindAll(text) {
		start, end := m.Start(), m.End()
		if !wordBoundary(text, start, end) {
			continue
		}
		hits = append(hits, Hit{Entry: g.entries[m.Pattern()], Phrase: text[start:end], Start: start, End: end})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Start < hits[j].Start })
	return hits
}

// First returns the leftmost hit.
func (g *Gazetteer) First(text string) (Hit, bool) {
	hits := g.FindAll(text)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Lookup returns the entry whose phrase equals text exactly.
func (g *Gazetteer) Lookup(text string) (Entry, bool) {
	i, ok := g.index[text]
	if !ok {
		return Entry{}, false
	}
	return g.entries[i], true
}

// wordBoundary checks that [start, end) is delimited by spaces or the text edges.
func wordBoundary(text string, start, end int) bool {
	if start > 0 && text[start-1] != ' ' {
		return false
	}
	if end < len(text) && text[end] != ' ' {
		return false
	}
	return true
}
