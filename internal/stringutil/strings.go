// Package stringutil provides the text normalization used by every matching routine.
package stringutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HasDigit reports whether s contains at least one decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// FoldAccents removes combining marks, so "Filipíno" becomes "Filipino".
func FoldAccents(s string) string {
	// transform chains keep internal state, one per call keeps this safe for concurrent use
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Clean lower-cases s, folds accents, turns every character that is not a
// letter or digit into a space and collapses runs of whitespace.
//
// Unlike Normalize it keeps plurals intact, which the intent rules rely on
// ("heads" vs "head").
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = FoldAccents(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// CompactCode upper-cases a course code and drops spaces and hyphens,
// so "cs-101", "CS 101" and "cs101" all compare equal.
func CompactCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tokenize splits already-normalized text on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(s)
}
