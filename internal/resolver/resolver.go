// Package resolver maps free text onto a single catalog course or program.
//
// Course resolution is an ordered cascade (code, alias, exact title, title
// subset, high-confidence fuzzy, fuzzy code). The first strategy that
// succeeds decides and its MatchType tells the caller how much to trust it.
// Every call is independent; nothing is remembered between calls.
package resolver

import (
	"strings"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/fuzzy"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/rag"
	"github.com/garyellow/casmate/internal/stringutil"
)

// Suggestion is one entry of a top-N list.
type Suggestion struct {
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// CourseResolution is the outcome of ResolveCourse.
//
// Course is nil unless Match is a resolving type. Ambiguous is set when
// several titles scored too close to pick one; Candidates then holds them.
// For an unresolved query Candidates holds suggestions instead.
type CourseResolution struct {
	Course     *catalog.Course `json:"course,omitempty"`
	Match      MatchType       `json:"match_type"`
	Score      int             `json:"score"`
	Ambiguous  bool            `json:"ambiguous,omitempty"`
	Candidates []Suggestion    `json:"candidates,omitempty"`
	Alias      string          `json:"alias,omitempty"` // the alias phrase for MatchAlias
}

// Resolved reports whether a course was picked.
func (r CourseResolution) Resolved() bool {
	return r.Course != nil && r.Match != MatchNone
}

// ProgramResolution is the outcome of ResolveProgram.
type ProgramResolution struct {
	Program *catalog.Program `json:"program,omitempty"`
	Score   int              `json:"score"`
	Via     ProgramVia       `json:"via"`
}

type aliasTarget struct {
	id      string
	variant string
}

type courseTitle struct {
	id     string
	tokens map[string]struct{}
}

// Resolver holds lookup tables derived from one catalog. It is immutable
// and safe for concurrent use.
type Resolver struct {
	cat   *catalog.Catalog
	index *rag.TitleIndex
	th    Thresholds
	norm  stringutil.Normalizer
	stop  stringutil.StopwordSet
	abbr  map[string]string

	courseAlias  map[string]aliasTarget // normalized variant and payload keys
	titleKeys    map[string]string      // normalized title or title payload -> course id
	titles       []courseTitle
	titleCands   []fuzzy.Candidate[string]
	codeCands    []fuzzy.Candidate[string]
	programAlias map[string]string
	programNames map[string]string
	programCands []fuzzy.Candidate[string]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThresholds overrides the default cutoffs. Unset fields keep defaults.
func WithThresholds(t Thresholds) Option {
	return func(r *Resolver) { r.th = t.withDefaults() }
}

// WithNormalizer sets the normalizer used for every comparison.
func WithNormalizer(n stringutil.Normalizer) Option {
	return func(r *Resolver) { r.norm = n }
}

// WithIndex enables BM25 keyword suggestions.
func WithIndex(idx *rag.TitleIndex) Option {
	return func(r *Resolver) { r.index = idx }
}

// New builds a resolver over c.
func New(c *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		cat:  c,
		th:   DefaultThresholds(),
		norm: stringutil.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.stop = stringutil.DefaultStopwords(r.norm)

	r.abbr = make(map[string]string)
	for k, v := range c.Abbreviations() {
		if k, v = r.norm.Normalize(k), r.norm.Normalize(v); k != "" && v != "" {
			r.abbr[k] = v
		}
	}

	r.courseAlias = make(map[string]aliasTarget)
	for _, a := range c.CourseAliases() {
		t := aliasTarget{id: a.ID, variant: a.Variant}
		for _, key := range r.keys(a.Variant) {
			if _, dup := r.courseAlias[key]; !dup {
				r.courseAlias[key] = t
			}
		}
	}

	r.titleKeys = make(map[string]string)
	for _, course := range c.Courses() {
		for _, key := range r.keys(course.Title) {
			if _, dup := r.titleKeys[key]; !dup {
				r.titleKeys[key] = course.ID
			}
		}
		tokens := make(map[string]struct{})
		for _, tok := range r.payload(course.Title) {
			tokens[tok] = struct{}{}
		}
		r.titles = append(r.titles, courseTitle{id: course.ID, tokens: tokens})
		r.titleCands = append(r.titleCands, fuzzy.Candidate[string]{Label: course.Title, Value: course.ID})
		if course.Code != "" {
			r.codeCands = append(r.codeCands, fuzzy.Candidate[string]{Label: stringutil.CompactCode(course.Code), Value: course.ID})
		}
	}

	r.programAlias = make(map[string]string)
	for _, a := range c.ProgramAliases() {
		for _, key := range r.keys(a.Variant) {
			if _, dup := r.programAlias[key]; !dup {
				r.programAlias[key] = a.ID
			}
		}
	}
	r.programNames = make(map[string]string)
	for _, p := range c.Programs() {
		for _, name := range []string{p.Name, p.ShortName, p.ID} {
			if key := r.norm.Normalize(name); key != "" {
				if _, dup := r.programNames[key]; !dup {
					r.programNames[key] = p.ID
				}
			}
		}
		r.programCands = append(r.programCands, fuzzy.Candidate[string]{Label: p.Name, Value: p.ID})
		if p.ShortName != "" {
			r.programCands = append(r.programCands, fuzzy.Candidate[string]{Label: p.ShortName, Value: p.ID})
		}
	}
	return r
}

// Thresholds returns the cutoffs in effect.
func (r *Resolver) Thresholds() Thresholds { return r.th }

// payload is the normalized query with stopwords stripped.
func (r *Resolver) payload(s string) []string {
	return r.norm.Payload(s, r.stop)
}

// expanded is the payload with abbreviations spelled out.
func (r *Resolver) expanded(s string) []string {
	return stringutil.ExpandAbbreviations(r.payload(s), r.abbr)
}

// keys returns the lookup keys of a phrase: its normalized form, its
// payload and its expanded payload.
func (r *Resolver) keys(s string) []string {
	var out []string
	for _, k := range []string{
		r.norm.Normalize(s),
		strings.Join(r.payload(s), " "),
		strings.Join(r.expanded(s), " "),
	} {
		if k != "" && (len(out) == 0 || out[len(out)-1] != k) {
			out = append(out, k)
		}
	}
	return out
}

func (r *Resolver) course(id string) *catalog.Course {
	c, ok := r.cat.Course(id)
	if !ok {
		return nil
	}
	return &c
}

// courseStep is one strategy of the cascade. ok false passes to the next.
type courseStep func(r *Resolver, q *query) (CourseResolution, bool)

// courseSteps is the resolution cascade in precedence order.
var courseSteps = []courseStep{
	(*Resolver).byCode,
	(*Resolver).byAlias,
	(*Resolver).byExactTitle,
	(*Resolver).byTitleSubset,
	(*Resolver).byFuzzyTitle,
	(*Resolver).byFuzzyCode,
}

type query struct {
	text     string
	ents     nlu.Entities
	codes    []string
	payload  []string
	expanded []string

	// set by byFuzzyTitle for the later steps
	fuzzyTried bool
	fuzzy      []fuzzy.Match[string]
}

func (r *Resolver) newQuery(text string, ents nlu.Entities) *query {
	q := &query{
		text:     text,
		ents:     ents,
		payload:  r.payload(text),
		expanded: r.expanded(text),
	}
	seen := make(map[string]bool)
	add := func(code string) {
		if code = stringutil.CompactCode(code); code != "" && !seen[code] {
			seen[code] = true
			q.codes = append(q.codes, code)
		}
	}
	add(ents.CourseCode)
	cands := ents.CodeCandidates
	if len(cands) == 0 && ents.CourseCode == "" {
		cands = nlu.CodeCandidates(text)
	}
	for _, c := range cands {
		add(c)
	}
	return q
}

// ResolveCourse resolves text to one course. ents may be the zero value, in
// which case code candidates are parsed from text directly. It never fails:
// an unresolvable query yields MatchNone with suggestions.
func (r *Resolver) ResolveCourse(text string, ents nlu.Entities) CourseResolution {
	q := r.newQuery(text, ents)
	for _, step := range courseSteps {
		if res, ok := step(r, q); ok {
			return res
		}
	}

	res := CourseResolution{Match: MatchNone}
	if len(q.payload) > 0 {
		res.Candidates = r.suggestFrom(q)
	}
	return res
}

// byCode accepts a catalog code written anywhere in the text before any
// extracted candidate, so a known code always wins.
func (r *Resolver) byCode(q *query) (CourseResolution, bool) {
	codes := append(nlu.KnownCodes(q.text, r.cat.HasCode), q.codes...)
	for _, code := range codes {
		if c, ok := r.cat.CourseByCode(code); ok {
			return CourseResolution{Course: &c, Match: MatchCode, Score: 100}, true
		}
	}
	return CourseResolution{}, false
}

func (r *Resolver) byAlias(q *query) (CourseResolution, bool) {
	var keys []string
	if m := q.ents.CourseTitle; m != nil && m.Alias {
		keys = append(keys, m.Phrase)
	}
	keys = append(keys, r.norm.Normalize(q.text), strings.Join(q.payload, " "), strings.Join(q.expanded, " "))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if t, ok := r.courseAlias[key]; ok {
			if c := r.course(t.id); c != nil {
				return CourseResolution{Course: c, Match: MatchAlias, Score: 100, Alias: t.variant}, true
			}
		}
	}
	return CourseResolution{}, false
}

func (r *Resolver) byExactTitle(q *query) (CourseResolution, bool) {
	for _, key := range []string{r.norm.Normalize(q.text), strings.Join(q.payload, " "), strings.Join(q.expanded, " ")} {
		if id, ok := r.titleKeys[key]; ok && key != "" {
			if c := r.course(id); c != nil {
				return CourseResolution{Course: c, Match: MatchExactTitle, Score: 100}, true
			}
		}
	}
	// a full title written inside a longer question
	if m := q.ents.CourseTitle; m != nil && !m.Alias {
		if c := r.course(m.ID); c != nil {
			return CourseResolution{Course: c, Match: MatchExactTitle, Score: 100}, true
		}
	}
	return CourseResolution{}, false
}

// byTitleSubset matches when every query token is a title token and the
// query covers enough of the title. The best coverage wins; ties keep
// catalog order.
func (r *Resolver) byTitleSubset(q *query) (CourseResolution, bool) {
	if len(q.expanded) == 0 {
		return CourseResolution{}, false
	}
	qset := make(map[string]struct{}, len(q.expanded))
	for _, tok := range q.expanded {
		qset[tok] = struct{}{}
	}

	bestID, bestCov := "", 0.0
	for _, t := range r.titles {
		if len(t.tokens) == 0 || len(qset) > len(t.tokens) {
			continue
		}
		covered := true
		for tok := range qset {
			if _, ok := t.tokens[tok]; !ok {
				covered = false
				break
			}
		}
		if !covered {
			continue
		}
		cov := float64(len(qset)) / float64(len(t.tokens))
		if cov >= r.th.SubsetTitleCoverage && cov > bestCov {
			bestID, bestCov = t.id, cov
		}
	}
	if c := r.course(bestID); c != nil {
		return CourseResolution{Course: c, Match: MatchExactTitleSubset, Score: int(bestCov*100 + 0.5)}, true
	}
	return CourseResolution{}, false
}

func (r *Resolver) byFuzzyTitle(q *query) (CourseResolution, bool) {
	text := strings.Join(q.expanded, " ")
	if len(text) < r.th.MinFuzzyQueryLen {
		return CourseResolution{}, false
	}
	q.fuzzyTried = true
	q.fuzzy = fuzzy.TopMatches(text, r.titleCands, 0, r.th.Suggest)
	if len(q.fuzzy) == 0 || q.fuzzy[0].Score < r.th.HighConfidence {
		return CourseResolution{}, false
	}

	best := q.fuzzy[0]
	var rivals []Suggestion
	for _, m := range q.fuzzy {
		if best.Score-m.Score < r.th.AmbiguityMargin {
			rivals = append(rivals, r.courseSuggestion(m.Value, m.Score))
		}
	}
	if len(rivals) > 1 {
		if len(rivals) > r.th.SuggestionLimit {
			rivals = rivals[:r.th.SuggestionLimit]
		}
		return CourseResolution{Match: MatchNone, Score: best.Score, Ambiguous: true, Candidates: rivals}, true
	}
	c := r.course(best.Value)
	if c == nil {
		return CourseResolution{}, false
	}
	return CourseResolution{Course: c, Match: MatchHighConfidenceFuzzy, Score: best.Score}, true
}

// byFuzzyCode compares each unknown code in the query against every known
// course code.
func (r *Resolver) byFuzzyCode(q *query) (CourseResolution, bool) {
	if !stringutil.HasDigit(q.text) {
		return CourseResolution{}, false
	}
	var best fuzzy.Match[string]
	found := false
	for _, code := range q.codes {
		ranked := fuzzy.Rank(code, r.codeCands, fuzzy.Ratio, r.th.FuzzyCode)
		if len(ranked) > 0 && (!found || ranked[0].Score > best.Score) {
			best, found = ranked[0], true
		}
	}
	if !found {
		return CourseResolution{}, false
	}
	c := r.course(best.Value)
	if c == nil {
		return CourseResolution{}, false
	}
	return CourseResolution{Course: c, Match: MatchFuzzyCode, Score: best.Score}, true
}

func (r *Resolver) courseSuggestion(id string, score int) Suggestion {
	s := Suggestion{ID: id, Score: score}
	if c, ok := r.cat.Course(id); ok {
		s.Code = c.Code
		s.Title = c.Title
	}
	return s
}

// TopCourses returns up to limit course titles scoring at least cutoff
// against text. limit <= 0 uses the configured suggestion limit.
func (r *Resolver) TopCourses(text string, limit, cutoff int) []Suggestion {
	if limit <= 0 {
		limit = r.th.SuggestionLimit
	}
	q := strings.Join(r.expanded(text), " ")
	if q == "" {
		return nil
	}
	matches := fuzzy.TopMatches(q, r.titleCands, limit, cutoff)
	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		out = append(out, r.courseSuggestion(m.Value, m.Score))
	}
	return out
}

// TopPrograms returns up to limit programs scoring at least cutoff against
// text, matching both full and short names. Each program appears once.
func (r *Resolver) TopPrograms(text string, limit, cutoff int) []Suggestion {
	if limit <= 0 {
		limit = r.th.SuggestionLimit
	}
	q := strings.Join(r.payload(text), " ")
	if q == "" {
		return nil
	}
	var out []Suggestion
	seen := make(map[string]bool)
	for _, m := range fuzzy.TopMatches(q, r.programCands, 0, cutoff) {
		if seen[m.Value] {
			continue
		}
		seen[m.Value] = true
		p, _ := r.cat.Program(m.Value)
		out = append(out, Suggestion{ID: p.ID, Code: p.ShortName, Title: p.Name, Score: m.Score})
		if len(out) == limit {
			break
		}
	}
	return out
}

// ResolveProgram resolves text to one program, trying an alias or
// abbreviation, then an exact name, then a unique substring, then fuzzy
// names. ents.Program short-circuits the first three.
func (r *Resolver) ResolveProgram(text string, ents nlu.Entities) ProgramResolution {
	if m := ents.Program; m != nil {
		if p, ok := r.cat.Program(m.ID); ok {
			via := ViaSubstring
			switch {
			case m.Alias:
				via = ViaAbbreviation
			case r.programNames[m.Phrase] == p.ID:
				via = ViaExactName
			}
			return ProgramResolution{Program: &p, Score: 100, Via: via}
		}
	}

	payload := strings.Join(r.payload(text), " ")
	if payload == "" {
		return ProgramResolution{Via: ViaNone}
	}
	for _, key := range []string{r.norm.Normalize(text), payload} {
		if id, ok := r.programAlias[key]; ok {
			return r.programResult(id, 100, ViaAbbreviation)
		}
	}
	for _, key := range []string{r.norm.Normalize(text), payload} {
		if id, ok := r.programNames[key]; ok {
			return r.programResult(id, 100, ViaExactName)
		}
	}

	if len(payload) >= r.th.MinFuzzyQueryLen {
		var hit string
		unique := true
		for _, p := range r.cat.Programs() {
			if strings.Contains(r.norm.Normalize(p.Name), payload) {
				if hit != "" {
					unique = false
					break
				}
				hit = p.ID
			}
		}
		if hit != "" && unique {
			return r.programResult(hit, 100, ViaSubstring)
		}

		if m, ok := fuzzy.BestMatch(payload, r.programCands, r.th.HighConfidence); ok {
			return r.programResult(m.Value, m.Score, ViaFuzzy)
		}
	}
	return ProgramResolution{Via: ViaNone}
}

func (r *Resolver) programResult(id string, score int, via ProgramVia) ProgramResolution {
	p, ok := r.cat.Program(id)
	if !ok {
		return ProgramResolution{Via: ViaNone}
	}
	return ProgramResolution{Program: &p, Score: score, Via: via}
}
