package stringutil

import "strings"

// DefaultSingularizeMinLen is the shortest token that loses a trailing "s".
const DefaultSingularizeMinLen = 4

// Normalizer produces the canonical matching form of free text.
// The zero value disables singularization.
type Normalizer struct {
	// SingularizeMinLen is the minimum token length (in bytes) for stripping
	// a trailing "s". Zero or negative disables it.
	SingularizeMinLen int
}

// Default is the normalizer used when callers do not configure one.
var Default = Normalizer{SingularizeMinLen: DefaultSingularizeMinLen}

// Normalize cleans s (see Clean) and applies naive singularization to every token.
// The result is stable under repeated application.
func (n Normalizer) Normalize(s string) string {
	cleaned := Clean(s)
	if cleaned == "" || n.SingularizeMinLen <= 0 {
		return cleaned
	}
	tokens := strings.Fields(cleaned)
	for i, tok := range tokens {
		tokens[i] = n.Singularize(tok)
	}
	return strings.Join(tokens, " ")
}

// Singularize strips one trailing "s" from tok when it is long enough.
// Tokens ending in "ss" and tokens containing digits are left alone, so the
// output never ends in a strippable "s" again.
//
// Known false positives ("analysis" -> "analysi") are accepted: both sides
// of every comparison go through the same function.
func (n Normalizer) Singularize(tok string) string {
	if n.SingularizeMinLen <= 0 || len(tok) < n.SingularizeMinLen || len(tok) < 3 {
		return tok
	}
	if !strings.HasSuffix(tok, "s") || strings.HasSuffix(tok, "ss") || HasDigit(tok) {
		return tok
	}
	return tok[:len(tok)-1]
}

// Normalize runs the Default normalizer.
func Normalize(s string) string {
	return Default.Normalize(s)
}

// StopwordSet is a set of normalized filler tokens.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set, normalizing every word with n so lookups
// line up with normalized query tokens.
func NewStopwordSet(n Normalizer, words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		for _, tok := range strings.Fields(n.Normalize(w)) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Contains reports whether tok is a stopword.
func (s StopwordSet) Contains(tok string) bool {
	_, ok := s[tok]
	return ok
}

// StripStopwords returns the tokens that are not in stop, preserving order.
// A nil set strips nothing.
func StripStopwords(tokens []string, stop StopwordSet) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stop.Contains(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ExpandAbbreviations replaces every token found in table with its expansion
// (which may be several tokens). Keys and values must already be normalized.
func ExpandAbbreviations(tokens []string, table map[string]string) []string {
	if len(table) == 0 {
		return tokens
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if exp, ok := table[tok]; ok && exp != "" {
			out = append(out, strings.Fields(exp)...)
			continue
		}
		out = append(out, tok)
	}
	return out
}

// defaultStopwords are question scaffolding and domain filler. What is left
// after stripping them is the semantic payload of a query.
var defaultStopwords = []string{
	// articles, pronouns, question words
	"a", "an", "the", "of", "for", "in", "on", "to", "at", "and", "or", "with", "from", "by",
	"is", "are", "was", "be", "do", "does", "did", "can", "could", "will", "would", "should",
	"what", "whats", "which", "who", "whom", "how", "many", "much", "when", "where",
	"i", "me", "my", "we", "our", "you", "your", "it", "its", "this", "that", "there", "s",
	"please", "pls", "tell", "show", "list", "give", "know", "need", "want", "about", "any",
	"have", "has", "get", "take", "taking", "taken", "offered", "included", "still",
	"info", "information", "detail", "details", "thank", "thanks", "hi", "hello",
	// domain filler
	"subject", "subjects", "course", "courses", "class", "classes",
	"prereq", "prereqs", "prerequisite", "prerequisites", "requirement", "requirements", "requisite",
	"unit", "units", "credit", "credits", "load", "total",
	"curriculum", "program", "degree",
	"year", "yr", "level", "sem", "semester", "trimester", "term",
	"first", "second", "third", "fourth", "1st", "2nd", "3rd", "4th",
	// Tagalog particles and connectors
	"po", "na", "pa", "ba", "nga", "naman", "daw", "raw", "rin", "din", "lang", "nlang",
	"ano", "ang", "ng", "sa", "mga", "yung", "kailangan", "dapat", "para",
}

// DefaultStopwords returns a fresh copy of the built-in stopword set normalized with n.
func DefaultStopwords(n Normalizer) StopwordSet {
	return NewStopwordSet(n, defaultStopwords...)
}

// Payload normalizes s and strips stopwords, returning the remaining tokens.
func (n Normalizer) Payload(s string, stop StopwordSet) []string {
	return StripStopwords(Tokenize(n.Normalize(s)), stop)
}
