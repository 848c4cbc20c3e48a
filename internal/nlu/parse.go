package nlu

import (
	"regexp"
	"strings"

	"github.com/garyellow/casmate/internal/stringutil"
)

var ordinals = map[string]int{
	"first": 1, "1st": 1, "one": 1, "1": 1,
	"second": 2, "2nd": 2, "two": 2, "2": 2,
	"third": 3, "3rd": 3, "three": 3, "3": 3,
	"fourth": 4, "4th": 4, "four": 4, "4": 4,
}

var termWords = map[string]bool{
	"sem": true, "sems": true, "semester": true, "semesters": true,
	"trimester": true, "trimesters": true, "term": true, "terms": true,
}

var (
	yearOrdinalRe = regexp.MustCompile(`\b(first|1st|second|2nd|third|3rd|fourth|4th) (?:year|yr)s?\b`)
	yearNumberRe  = regexp.MustCompile(`\b(?:year|yr) (1|2|3|4|one|two|three|four)\b`)
	standingRe    = regexp.MustCompile(`\b(freshman|freshmen|sophomore|sophomores|junior|juniors|senior|seniors)\b`)
	bareOrdinalRe = regexp.MustCompile(`\b(first|1st|second|2nd|third|3rd|fourth|4th)\b`)

	termOrdinalRe = regexp.MustCompile(`\b(first|1st|second|2nd|third|3rd) (?:sem|semester|trimester|term)s?\b`)
	termNumberRe  = regexp.MustCompile(`\b(?:sem|semester|trimester|term) (1|2|3|one|two|three)\b`)
	summerRe      = regexp.MustCompile(`\b(summer|midyear|mid year)\b`)

	// Runs on cleaned text, where hyphens have already become spaces.
	codeRe = regexp.MustCompile(`\b([a-z]{2,4}) ?(\d{2,4})\b`)
)

var standings = map[string]int{
	"freshman": 1, "freshmen": 1,
	"sophomore": 2, "sophomores": 2,
	"junior": 3, "juniors": 3,
	"senior": 4, "seniors": 4,
}

// codeStopPrefixes are English and Tagalog words that look like a code
// prefix when followed by a number ("year 2024", "in 2025").
var codeStopPrefixes = map[string]bool{
	"year": true, "yr": true, "yrs": true, "in": true, "of": true, "sem": true, "term": true,
	"the": true, "and": true, "for": true, "is": true, "to": true, "on": true, "at": true,
	"by": true, "no": true, "na": true, "sa": true, "ng": true, "ang": true, "top": true,
	"unit": true, "page": true, "room": true, "rm": true, "sy": true, "ay": true, "are": true,
	"was": true, "with": true, "from": true, "last": true, "next": true, "only": true,
}

// ParseYear returns the year level (1-4) mentioned in text, or 0.
//
// Rules are tried in order: an ordinal followed by "year", "year N",
// a class-standing word, and finally a bare ordinal that is not followed
// by a term word ("first sem" names a term, not a year).
func ParseYear(text string) int {
	t := stringutil.Clean(text)
	if t == "" {
		return 0
	}
	if m := yearOrdinalRe.FindStringSubmatch(t); m != nil {
		return ordinals[m[1]]
	}
	if m := yearNumberRe.FindStringSubmatch(t); m != nil {
		return ordinals[m[1]]
	}
	if m := standingRe.FindStringSubmatch(t); m != nil {
		return standings[m[1]]
	}
	for _, loc := range bareOrdinalRe.FindAllStringSubmatchIndex(t, -1) {
		next := strings.Fields(t[loc[1]:])
		if len(next) > 0 && termWords[next[0]] {
			continue
		}
		return ordinals[t[loc[2]:loc[3]]]
	}
	return 0
}

// ParseTerm returns the term (1-3) mentioned in text, or 0.
// Summer and midyear count as term 3.
func ParseTerm(text string) int {
	t := stringutil.Clean(text)
	if t == "" {
		return 0
	}
	if m := termOrdinalRe.FindStringSubmatch(t); m != nil {
		return ordinals[m[1]]
	}
	if m := termNumberRe.FindStringSubmatch(t); m != nil {
		return ordinals[m[1]]
	}
	if summerRe.MatchString(t) {
		return 3
	}
	return 0
}

// CodeCandidates returns every course-code-shaped token pair in text, in
// compact form ("cs-101" -> "CS101"), skipping pairs whose letter prefix
// is a common word. Codes the catalog knows are found by KnownCodes
// instead, which applies no such filter.
func CodeCandidates(text string) []string {
	t := stringutil.Clean(text)
	var out []string
	for _, m := range codeRe.FindAllStringSubmatch(t, -1) {
		if codeStopPrefixes[m[1]] {
			continue
		}
		out = append(out, strings.ToUpper(m[1]+m[2]))
	}
	return out
}

// KnownCodes returns the catalog codes written in text, in compact form and
// in order of appearance. Each adjacent token pair is tried before the
// single token at the same position, so "NSTP 1", "is101" and "IS-101" are
// all found. known reports whether a compact code exists.
func KnownCodes(text string, known func(string) bool) []string {
	if known == nil {
		return nil
	}
	toks := strings.Fields(stringutil.Clean(text))
	var out []string
	seen := make(map[string]bool)
	try := func(code string) bool {
		if !stringutil.HasDigit(code) || !stringutil.HasLetter(code) || !known(code) {
			return false
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
		return true
	}
	for i := 0; i < len(toks); i++ {
		if i+1 < len(toks) && try(strings.ToUpper(toks[i]+toks[i+1])) {
			i++
			continue
		}
		try(strings.ToUpper(toks[i]))
	}
	return out
}

// simplifyTagalog strips common Tagalog verb affixes and reduplication so
// inflected forms share a root ("nagtuturo" -> "turo").
func simplifyTagalog(tok string) string {
	base := tok
	if len(base) >= 4 && strings.Contains(base[:4], "um") {
		base = strings.Replace(base, "um", "", 1)
	}
	for _, pref := range []string{"ipag", "mag", "nag", "pag", "ma", "na", "i"} {
		if strings.HasPrefix(base, pref) {
			base = base[len(pref):]
			break
		}
	}
	if len(base) >= 4 && base[:2] == base[2:4] {
		base = base[2:]
	}
	for _, suf := range []string{"hin", "in", "an", "han", "ng"} {
		if strings.HasSuffix(base, suf) && len(base) > len(suf)+1 {
			base = base[:len(base)-len(suf)]
			break
		}
	}
	return base
}
