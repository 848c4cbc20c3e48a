package nlu

import (
	"slices"
	"strings"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/stringutil"
)

// Mention is an entity found in a question.
type Mention struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phrase string `json:"phrase"` // normalized text that matched
	Alias  bool   `json:"alias,omitempty"`
}

// Entities is everything the extractor found. Zero values mean absent.
type Entities struct {
	Program        *Mention `json:"program,omitempty"`
	CourseCode     string   `json:"course_code,omitempty"`
	CodeCandidates []string `json:"code_candidates,omitempty"`
	CourseTitle    *Mention `json:"course_title,omitempty"`
	Department     *Mention `json:"department,omitempty"`
	Year           int      `json:"year_num,omitempty"`
	Term           int      `json:"term_num,omitempty"`
}

// Empty reports whether nothing at all was extracted.
func (e Entities) Empty() bool {
	return e.Program == nil && e.CourseCode == "" && e.CourseTitle == nil &&
		e.Department == nil && e.Year == 0 && e.Term == 0
}

// programPrefixes are degree prefixes stripped to get a program's bare
// subject ("Bachelor of Science in Psychology" -> "Psychology").
var programPrefixes = []string{
	"bachelor of science in ",
	"bachelor of arts in ",
	"bachelor of ",
	"bs in ",
	"ba in ",
	"ab in ",
	"bs ",
	"ba ",
	"ab ",
}

var departmentPrefixes = []string{
	"department of ",
	"dept of ",
	"college of ",
}

// Extractor pulls entities out of free text using phrase dictionaries built
// from one catalog. It is immutable and safe for concurrent use.
type Extractor struct {
	norm        stringutil.Normalizer
	programs    *Gazetteer
	courses     *Gazetteer
	departments *Gazetteer
	knownCode   func(string) bool
}

// NewExtractor builds the program, course and department dictionaries.
//
// An alias that is itself a stopword ("it" for Information Technology) is
// left out of the dictionaries; it would fire on ordinary questions.
func NewExtractor(c *catalog.Catalog, n stringutil.Normalizer) *Extractor {
	stop := stringutil.DefaultStopwords(n)
	usable := func(variant string) bool {
		return !stop.Contains(n.Normalize(variant))
	}

	var progEntries []Entry
	for _, p := range c.Programs() {
		name := p.DisplayName()
		progEntries = append(progEntries, Phrase(p.ID, name, name, false))
		if p.ShortName != "" {
			progEntries = append(progEntries, Phrase(p.ID, name, p.ShortName, false))
		}
		progEntries = append(progEntries, Phrase(p.ID, name, p.ID, false))
		if subject := stripPrefix(strings.ToLower(name), programPrefixes); subject != "" {
			progEntries = append(progEntries, Phrase(p.ID, name, subject, false))
		}
	}
	for _, a := range c.ProgramAliases() {
		if p, ok := c.Program(a.ID); ok && usable(a.Variant) {
			progEntries = append(progEntries, Phrase(p.ID, p.Name, a.Variant, true))
		}
	}

	var courseEntries []Entry
	for _, course := range c.Courses() {
		courseEntries = append(courseEntries, Phrase(course.ID, course.Title, course.Title, false))
	}
	for _, a := range c.CourseAliases() {
		if course, ok := c.Course(a.ID); ok && usable(a.Variant) {
			courseEntries = append(courseEntries, Phrase(course.ID, course.Title, a.Variant, true))
		}
	}

	var deptEntries []Entry
	for _, d := range c.Departments() {
		deptEntries = append(deptEntries, Phrase(d.ID, d.Name, d.Name, false))
		if bare := stripPrefix(strings.ToLower(d.Name), departmentPrefixes); bare != "" {
			deptEntries = append(deptEntries, Phrase(d.ID, d.Name, bare, false))
		}
	}
	for _, a := range c.DepartmentAliases() {
		if d, ok := c.Department(a.ID); ok && usable(a.Variant) {
			deptEntries = append(deptEntries, Phrase(d.ID, d.Name, a.Variant, true))
		}
	}

	return &Extractor{
		norm:        n,
		programs:    NewGazetteer(n, progEntries),
		courses:     NewGazetteer(n, courseEntries),
		departments: NewGazetteer(n, deptEntries),
		knownCode:   c.HasCode,
	}
}

func stripPrefix(s string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return ""
}

// Extract returns the entities mentioned in text. It never fails; text with
// no recognizable content yields an empty Entities.
func (e *Extractor) Extract(text string) Entities {
	var ents Entities
	norm := e.norm.Normalize(text)
	if norm == "" {
		return ents
	}

	courseHits := e.courses.FindAll(norm)
	if len(courseHits) > 0 {
		ents.CourseTitle = mentionOf(courseHits[0])
	}
	deptHits := e.departments.FindAll(norm)
	if len(deptHits) > 0 {
		ents.Department = mentionOf(deptHits[0])
	}
	// A program phrase inside a longer course or department phrase
	// ("psychology" in "social psychology") names that entity instead.
	for _, h := range e.programs.FindAll(norm) {
		if !inside(h, courseHits) && !inside(h, deptHits) {
			ents.Program = mentionOf(h)
			break
		}
	}

	ents.CodeCandidates = mergeCodes(KnownCodes(text, e.knownCode), CodeCandidates(text))
	ents.CourseCode = e.pickCode(ents.CodeCandidates)
	ents.Year = ParseYear(text)
	ents.Term = ParseTerm(text)
	return ents
}

// pickCode prefers a candidate that is a real course code, then the first one.
func (e *Extractor) pickCode(cands []string) string {
	for _, c := range cands {
		if e.knownCode(c) {
			return c
		}
	}
	if len(cands) > 0 {
		return cands[0]
	}
	return ""
}

// mergeCodes appends the shaped candidates to the known codes, dropping repeats.
func mergeCodes(known, shaped []string) []string {
	out := known
	for _, c := range shaped {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func inside(h Hit, outer []Hit) bool {
	for _, o := range outer {
		if h.Start >= o.Start && h.End <= o.End && (h.End-h.Start) < (o.End-o.Start) {
			return true
		}
	}
	return false
}

func mentionOf(h Hit) *Mention {
	return &Mention{ID: h.ID, Name: h.Name, Phrase: h.Phrase, Alias: h.Alias}
}

// HasProgram reports whether text mentions a program.
func (e *Extractor) HasProgram(text string) bool {
	return e.Extract(text).Program != nil
}

// HasCourse reports whether text mentions a course by title, alias or code.
func (e *Extractor) HasCourse(text string) bool {
	ents := e.Extract(text)
	return ents.CourseTitle != nil || ents.CourseCode != ""
}

// CoursePhrase returns the course whose title or alias equals the whole
// normalized text.
func (e *Extractor) CoursePhrase(text string) (Mention, bool) {
	norm := e.norm.Normalize(text)
	entry, ok := e.courses.Lookup(norm)
	if !ok {
		return Mention{}, false
	}
	return Mention{ID: entry.ID, Name: entry.Name, Phrase: norm, Alias: entry.Alias}, true
}

// Normalizer returns the normalizer the dictionaries were built with.
func (e *Extractor) Normalizer() stringutil.Normalizer { return e.norm }
