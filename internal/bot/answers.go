package bot

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/resolver"
	"github.com/garyellow/casmate/internal/stringutil"
)

// routes maps every intent to its answer. Intents missing here fall back to
// courseinfo.
var routes = map[nlu.Intent]func(*Processor, *turn) Reply{
	nlu.IntentFinance:       (*Processor).finance,
	nlu.IntentGreeting:      (*Processor).greeting,
	nlu.IntentGoodbye:       (*Processor).goodbye,
	nlu.IntentPrerequisites: (*Processor).prerequisites,
	nlu.IntentUnits:         (*Processor).units,
	nlu.IntentCurriculum:    (*Processor).curriculum,
	nlu.IntentDeptHeadsList: (*Processor).departmentHeads,
	nlu.IntentDeptHeadOne:   (*Processor).departmentHead,
	nlu.IntentInstructor:    (*Processor).instructor,
	nlu.IntentCourseInfo:    (*Processor).courseInfo,
}

// courseAnswers render the answer for a course the user has settled on.
// A pending clarification re-enters here once the user picks an option.
var courseAnswers = map[nlu.Intent]func(*Processor, *turn, catalog.Course, string) Reply{
	nlu.IntentPrerequisites: (*Processor).prerequisitesOf,
	nlu.IntentUnits:         (*Processor).unitsOf,
	nlu.IntentCurriculum:    (*Processor).membershipOf,
	nlu.IntentInstructor:    (*Processor).instructorOf,
	nlu.IntentCourseInfo:    (*Processor).infoOf,
}

func (p *Processor) route(t *turn) Reply {
	if h, ok := routes[t.intent]; ok {
		return h(p, t)
	}
	return p.courseInfo(t)
}

func (p *Processor) finance(*turn) Reply {
	return Reply{Text: fmt.Sprintf(financeTemplate, p.financeURL)}
}

func (p *Processor) greeting(*turn) Reply {
	return Reply{Text: timeGreeting(p.now()) + "! How can I help today?"}
}

func (p *Processor) goodbye(*turn) Reply {
	return Reply{Text: GoodbyeText}
}

// resolveCourse runs the resolver and turns anything short of a confident
// match into a clarification for the turn's intent.
func (p *Processor) resolveCourse(t *turn, notFound string) Reply {
	res := t.e.Resolver.ResolveCourse(t.text, t.ents)
	return p.answerCourse(t, res, notFound)
}

func (p *Processor) answerCourse(t *turn, res resolver.CourseResolution, notFound string) Reply {
	p.recordCourse(res)
	answer, ok := courseAnswers[t.intent]
	if !ok {
		answer = (*Processor).infoOf
	}

	switch {
	case res.Resolved() && res.Match.Confident():
		r := answer(p, t, *res.Course, res.Alias)
		r.MatchType, r.Score = res.Match.String(), res.Score
		return r

	case res.Resolved() && res.Match.NeedsConfirmation():
		c := *res.Course
		opt := resolver.Suggestion{ID: c.ID, Code: c.Code, Title: c.Title, Score: res.Score}
		return Reply{
			Text:        fmt.Sprintf("I found a possible match: %s (%s). Is this the course you meant?", c.Label(), unitsText(c.Units)),
			Source:      t.e.Catalog.SourceFor(c.ProgramID),
			MatchType:   res.Match.String(),
			Score:       res.Score,
			Suggestions: []resolver.Suggestion{opt},
			pending:     &Pending{Intent: t.intent, Options: []resolver.Suggestion{opt}},
		}

	case res.Ambiguous && len(res.Candidates) > 0:
		return Reply{
			Text:        "I found multiple courses: " + optionList(res.Candidates) + ". Which one did you mean?",
			MatchType:   res.Match.String(),
			Suggestions: res.Candidates,
			pending:     &Pending{Intent: t.intent, Options: res.Candidates},
		}

	case len(res.Candidates) > 0:
		return Reply{
			Text:        "Did you mean: " + optionList(res.Candidates) + "?",
			MatchType:   res.Match.String(),
			Suggestions: res.Candidates,
			pending:     &Pending{Intent: t.intent, Options: res.Candidates},
		}
	}
	return Reply{Text: notFound, MatchType: res.Match.String(), Clarifying: true}
}

func (p *Processor) prerequisites(t *turn) Reply {
	return p.resolveCourse(t, "Could not identify the course to check prerequisites. Please mention the exact title or code.")
}

func (p *Processor) prerequisitesOf(t *turn, c catalog.Course, _ string) Reply {
	src := t.e.Catalog.SourceFor(c.ProgramID)
	if wantsChain(t.text) {
		chain := t.e.Catalog.PrerequisiteChain(c.ID)
		if len(chain) == 0 {
			return Reply{Text: fmt.Sprintf("%s has no listed prerequisites.", c.Label()), Source: src}
		}
		return Reply{Text: fmt.Sprintf("Full prerequisite chain for %s, nearest first: %s.", c.Label(), joinLabels(chain)), Source: src}
	}

	reqs := t.e.Catalog.GetPrerequisites(c.ID)
	if len(reqs) == 0 {
		return Reply{Text: fmt.Sprintf("%s has no listed prerequisites.", c.Label()), Source: src}
	}
	return Reply{Text: fmt.Sprintf("Prerequisites for %s: %s.", c.Label(), joinLabels(reqs)), Source: src}
}

// wantsChain reports whether the question asks for every prerequisite
// rather than the direct ones.
func wantsChain(text string) bool {
	toks := stringutil.Tokenize(stringutil.Clean(text))
	return slices.Contains(toks, "chain") || slices.Contains(toks, "all")
}

// units answers a code first, then a program, then a course title.
func (p *Processor) units(t *turn) Reply {
	if t.ents.CourseCode != "" || len(t.ents.CodeCandidates) > 0 {
		res := t.e.Resolver.ResolveCourse(t.text, t.ents)
		if res.Match == resolver.MatchCode || res.Match == resolver.MatchFuzzyCode {
			return p.answerCourse(t, res, NoMatchText)
		}
	}

	if t.ents.Program != nil {
		pr := t.e.Resolver.ResolveProgram(t.text, t.ents)
		p.recordProgram(pr)
		if pr.Program != nil {
			return p.programUnits(t, *pr.Program)
		}
	}

	return p.resolveCourse(t, "Please mention a course or a program (e.g., Computer Science, MMW).")
}

func (p *Processor) unitsOf(t *turn, c catalog.Course, alias string) Reply {
	src := t.e.Catalog.SourceFor(c.ProgramID)
	if shortAlias(alias) {
		return Reply{
			Text:   fmt.Sprintf("%s (%s) has %s.", strings.ToUpper(alias), c.Label(), unitsText(c.Units)),
			Source: src,
		}
	}
	return Reply{Text: fmt.Sprintf("%s: %s has %s.", c.DisplayCode(), c.Title, unitsText(c.Units)), Source: src}
}

func (p *Processor) programUnits(t *turn, prog catalog.Program) Reply {
	cat := t.e.Catalog
	src := cat.SourceFor(prog.ID)

	if year := t.ents.Year; year > 0 {
		if len(cat.CoursesFor(prog.ID, year, 0)) == 0 {
			return Reply{Text: fmt.Sprintf("No plan entries found for %s year %s.", yearName(year), prog.Name), Source: src}
		}
		sum := cat.UnitsFor(prog.ID, year)
		text := fmt.Sprintf("Total units for %s year %s: %d (%s).", yearName(year), prog.Name, sum.Total, termBreakdown(sum.ByTerm))
		if sum.DiagnosticExcluded {
			text += " Not counted (diagnostic): " + joinLabels(sum.Excluded) + "."
		}
		return Reply{Text: text, Source: src}
	}

	years := cat.Years(prog.ID)
	if len(years) == 0 {
		return Reply{Text: fmt.Sprintf("No plan entries found for %s.", prog.Name), Source: src}
	}
	parts := make([]string, len(years))
	overall := 0
	diagnostic := false
	for i, y := range years {
		sum := cat.UnitsFor(prog.ID, y)
		parts[i] = fmt.Sprintf("%s year %d", yearName(y), sum.Total)
		overall += sum.Total
		diagnostic = diagnostic || sum.DiagnosticExcluded
	}
	text := fmt.Sprintf("Total units for %s: %s. Overall: %s.", prog.Name, strings.Join(parts, ", "), unitsText(overall))
	if diagnostic {
		text += " Diagnostic courses are not counted."
	}
	return Reply{Text: text, Source: src}
}

// curriculum answers "is X in the curriculum" when a course is named, and
// otherwise lists a program year's courses.
func (p *Processor) curriculum(t *turn) Reply {
	if t.ents.CourseTitle != nil || t.ents.CourseCode != "" {
		return p.resolveCourse(t, "Could not identify the course. Please mention the exact title or code.")
	}

	if t.ents.Program != nil {
		pr := t.e.Resolver.ResolveProgram(t.text, t.ents)
		p.recordProgram(pr)
		if pr.Program != nil {
			return p.programCourses(t, *pr.Program, t.ents.Year, t.ents.Term)
		}
	}
	return Reply{Text: "Please mention a program (e.g., Psychology, Computer Science).", Clarifying: true}
}

func (p *Processor) programCourses(t *turn, prog catalog.Program, year, term int) Reply {
	cat := t.e.Catalog
	src := cat.SourceFor(prog.ID)

	if year == 0 {
		return Reply{
			Text:    fmt.Sprintf("Please tell me which year level of %s you mean (e.g., first year, 2nd year).", prog.Name),
			Source:  src,
			pending: &Pending{Intent: nlu.IntentCurriculum, ProgramID: prog.ID, Term: term},
		}
	}

	head := fmt.Sprintf("Courses for %s year %s", yearName(year), prog.Name)
	if term > 0 {
		courses := cat.CoursesFor(prog.ID, year, term)
		if len(courses) == 0 {
			return Reply{Text: fmt.Sprintf("No plan entries found for %s year %s, %s.", yearName(year), prog.Name, termName(term)), Source: src}
		}
		return Reply{Text: fmt.Sprintf("%s, %s: %s.", head, termName(term), courseLines(courses)), Source: src}
	}

	terms := cat.Terms(prog.ID, year)
	if len(terms) == 0 {
		return Reply{Text: fmt.Sprintf("No plan entries found for %s year %s.", yearName(year), prog.Name), Source: src}
	}
	groups := make([]string, 0, len(terms))
	for _, tm := range terms {
		groups = append(groups, termName(tm)+": "+courseLines(cat.CoursesFor(prog.ID, year, tm)))
	}
	return Reply{Text: head + ": " + strings.Join(groups, "; ") + ".", Source: src}
}

func courseLines(courses []catalog.Course) string {
	parts := make([]string, len(courses))
	for i, c := range courses {
		parts[i] = courseLine(c)
	}
	return strings.Join(parts, ", ")
}

func (p *Processor) membershipOf(t *turn, c catalog.Course, _ string) Reply {
	placements := t.e.Catalog.PlacementsOf(c.ID)
	src := t.e.Catalog.SourceFor(c.ProgramID)

	if t.ents.Program != nil {
		var inProgram []catalog.Placement
		for _, pl := range placements {
			if pl.Program.ID == t.ents.Program.ID {
				inProgram = append(inProgram, pl)
			}
		}
		if len(inProgram) == 0 {
			prog, _ := t.e.Catalog.Program(t.ents.Program.ID)
			return Reply{Text: fmt.Sprintf("No, %s is not in the curriculum of %s.", c.Label(), prog.Name), Source: src}
		}
		placements = inProgram
	}

	if len(placements) == 0 {
		return Reply{Text: fmt.Sprintf("I could not find %s in any curriculum.", c.Label()), Source: src}
	}
	parts := make([]string, len(placements))
	for i, pl := range placements {
		parts[i] = fmt.Sprintf("%s (%s year, %s)", pl.Program.Name, yearName(pl.Year), termName(pl.Term))
	}
	return Reply{Text: fmt.Sprintf("Yes, %s is in the curriculum of %s.", c.Label(), strings.Join(parts, "; ")), Source: src}
}

func (p *Processor) departmentHeads(t *turn) Reply {
	cat := t.e.Catalog
	var b strings.Builder
	src := ""
	if dean, ok := cat.Dean(); ok {
		fmt.Fprintf(&b, "Dean: %s (%s).", headOrVacant(dean), dean.Name)
		src = cat.SourceFor("")
	}
	heads := cat.DepartmentHeads()
	if len(heads) > 0 {
		parts := make([]string, len(heads))
		for i, d := range heads {
			parts[i] = d.Name + ": " + headOrVacant(d)
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("Department heads: " + strings.Join(parts, "; ") + ".")
	}
	if b.Len() == 0 {
		return Reply{Text: "No department heads are on record."}
	}
	return Reply{Text: b.String(), Source: src}
}

func headOrVacant(d catalog.Department) string {
	if d.Head == "" {
		return "vacant"
	}
	return d.Head
}

func (p *Processor) departmentHead(t *turn) Reply {
	cat := t.e.Catalog
	toks := stringutil.Tokenize(stringutil.Clean(t.text))

	var dept catalog.Department
	found := false
	switch {
	case slices.Contains(toks, "dean"):
		dept, found = cat.Dean()
	case t.ents.Department != nil:
		dept, found = cat.Department(t.ents.Department.ID)
	case t.ents.Program != nil:
		dept, found = cat.DepartmentForProgram(t.ents.Program.ID)
	}

	if !found {
		names := make([]string, 0)
		for _, d := range cat.DepartmentHeads() {
			names = append(names, d.Name)
		}
		text := "Which department do you mean?"
		if len(names) > 0 {
			text += " For example: " + strings.Join(names, ", ") + "."
		}
		return Reply{Text: text, Clarifying: true}
	}

	src := "Dean's Office, " + dept.Name + " (internal)"
	if !dept.Dean {
		src = "Department Head, " + dept.Name + " (internal)"
	}
	if dept.Head == "" {
		return Reply{Text: fmt.Sprintf("The %s has no head on record.", dept.Name), Source: src}
	}
	role := "head"
	if dept.Dean {
		role = "dean"
	}
	return Reply{Text: fmt.Sprintf("The %s of the %s is %s.", role, dept.Name, dept.Head), Source: src}
}

func (p *Processor) instructor(t *turn) Reply {
	return p.resolveCourse(t, "Could not find a matching course.")
}

func (p *Processor) instructorOf(t *turn, c catalog.Course, _ string) Reply {
	return Reply{
		Text:   fmt.Sprintf("%s: %s. Instructor assignments are not yet published.", c.DisplayCode(), c.Title),
		Source: t.e.Catalog.SourceFor(c.ProgramID),
	}
}

// courseInfo is the fallback: a course if one resolves, else a program
// summary, else suggestions.
func (p *Processor) courseInfo(t *turn) Reply {
	res := t.e.Resolver.ResolveCourse(t.text, t.ents)
	if !res.Resolved() && !res.Ambiguous && t.ents.Program != nil {
		pr := t.e.Resolver.ResolveProgram(t.text, t.ents)
		p.recordProgram(pr)
		if pr.Program != nil {
			return p.programSummary(t, *pr.Program)
		}
	}
	return p.answerCourse(t, res, NoMatchText)
}

func (p *Processor) infoOf(t *turn, c catalog.Course, _ string) Reply {
	return Reply{
		Text:   fmt.Sprintf("%s: %s, %s.", c.DisplayCode(), c.Title, unitsText(c.Units)),
		Source: t.e.Catalog.SourceFor(c.ProgramID),
	}
}

func (p *Processor) programSummary(t *turn, prog catalog.Program) Reply {
	cat := t.e.Catalog
	years := cat.Years(prog.ID)
	name := prog.Name
	if prog.ShortName != "" {
		name += " (" + prog.ShortName + ")"
	}
	if len(years) == 0 {
		return Reply{Text: name + " has no curriculum on record yet.", Source: cat.SourceFor(prog.ID)}
	}
	n := 0
	for _, y := range years {
		n += len(cat.CoursesFor(prog.ID, y, 0))
	}
	return Reply{
		Text: fmt.Sprintf("%s lists %d courses across year levels %d to %d. Ask about a year level to see its courses or units.",
			name, n, years[0], years[len(years)-1]),
		Source: cat.SourceFor(prog.ID),
	}
}

var (
	yesWords = map[string]bool{"yes": true, "y": true, "yeah": true, "yep": true, "sure": true, "oo": true, "opo": true}
	noWords  = map[string]bool{"no": true, "n": true, "nope": true, "hindi": true}
)

// answerPending tries text as the answer to an open clarification. It
// reports false when text reads as a new question instead.
func (p *Processor) answerPending(ctx context.Context, e *engine.Engine, pend Pending, text string) (Reply, bool) {
	t := &turn{ctx: ctx, e: e, text: text, ents: e.Extractor.Extract(text), intent: pend.Intent}

	if pend.ProgramID != "" {
		return p.answerYear(t, pend)
	}

	clean := stringutil.Clean(text)
	if noWords[clean] {
		return Reply{
			Text:       "Okay. Please tell me the exact course title or code.",
			Intent:     pend.Intent,
			Clarifying: true,
		}, true
	}

	id, ok := pickOption(e, pend.Options, text)
	if !ok {
		return Reply{}, false
	}
	c, ok := e.Catalog.Course(id)
	if !ok {
		return Reply{}, false
	}
	answer, ok := courseAnswers[pend.Intent]
	if !ok {
		answer = (*Processor).infoOf
	}
	reply := answer(p, t, c, "")
	reply.Intent = pend.Intent
	return reply, true
}

// pickOption matches a reply against the offered options: by number, by
// code, by title, or a plain yes when only one option was offered.
func pickOption(e *engine.Engine, opts []resolver.Suggestion, text string) (string, bool) {
	if len(opts) == 0 {
		return "", false
	}
	clean := stringutil.Clean(text)
	if stringutil.IsNumeric(clean) {
		n, err := strconv.Atoi(clean)
		if err != nil || n < 1 || n > len(opts) {
			return "", false
		}
		return opts[n-1].ID, true
	}
	if len(opts) == 1 && yesWords[clean] {
		return opts[0].ID, true
	}

	code := stringutil.CompactCode(clean)
	norm := e.Extractor.Normalizer()
	title := norm.Normalize(text)
	for _, o := range opts {
		if o.Code != "" && code == stringutil.CompactCode(o.Code) {
			return o.ID, true
		}
		if title != "" && title == norm.Normalize(o.Title) {
			return o.ID, true
		}
	}
	return "", false
}

// answerYear completes a question that was waiting for a year level.
func (p *Processor) answerYear(t *turn, pend Pending) (Reply, bool) {
	if t.ents.CourseTitle != nil || t.ents.CourseCode != "" {
		return Reply{}, false
	}
	if t.ents.Program != nil && t.ents.Program.ID != pend.ProgramID {
		return Reply{}, false
	}
	year := t.ents.Year
	if year == 0 {
		if n, err := strconv.Atoi(stringutil.Clean(t.text)); err == nil && n >= 1 && n <= 5 {
			year = n
		}
	}
	if year == 0 {
		return Reply{}, false
	}
	prog, ok := t.e.Catalog.Program(pend.ProgramID)
	if !ok {
		return Reply{}, false
	}

	t.ents.Year = year
	term := t.ents.Term
	if term == 0 {
		term = pend.Term
	}
	var reply Reply
	if pend.Intent == nlu.IntentUnits {
		reply = p.programUnits(t, prog)
	} else {
		reply = p.programCourses(t, prog, year, term)
	}
	reply.Intent = pend.Intent
	return reply, true
}
