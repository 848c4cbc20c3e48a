package nlu

import (
	"regexp"
	"strings"

	"github.com/garyellow/casmate/internal/stringutil"
)

// Hinter answers whether a question mentions a program or a course. The
// Extractor implements it; tests can supply a stub.
type Hinter interface {
	HasProgram(text string) bool
	HasCourse(text string) bool
}

// message is a question prepared once for every rule.
type message struct {
	clean  string
	tokens []string
	set    map[string]bool
	hints  Hinter
	raw    string
}

func (m *message) hasAny(words ...string) bool {
	for _, w := range words {
		if m.set[w] {
			return true
		}
	}
	return false
}

func (m *message) hasPhrase(phrases ...string) bool {
	padded := " " + m.clean + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

// content returns the tokens without Tagalog particles and filler that
// does not change a greeting or goodbye ("po", "casmate").
func (m *message) content() string {
	var out []string
	for _, t := range m.tokens {
		if !smallTalkFiller[t] {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

type rule struct {
	name   string
	intent Intent
	match  func(m *message) bool
}

var (
	financeWords = []string{
		"finance", "billing", "payment", "payments", "pay", "cashier", "tuition", "fees", "fee",
		"balance", "statement", "downpayment", "installment", "overdue", "surcharge",
	}
	greetingPhrases = setOf(
		"hi", "hello", "hey", "hi there", "hello there", "hey there", "yo", "good day",
		"good morning", "good afternoon", "good evening", "kumusta", "kamusta", "musta",
		"magandang umaga", "magandang hapon", "magandang gabi",
	)
	goodbyePhrases = setOf(
		"bye", "goodbye", "bye bye", "see you", "thanks", "thank you", "thank you so much",
		"thanks a lot", "ty", "salamat", "maraming salamat", "no", "none", "nothing",
		"that s all", "thats all", "nope", "nah", "no thanks", "no thank you", "ok thanks",
		"okay thanks", "ok thank you", "okay thank you", "ok bye", "okay bye",
	)
	smallTalkFiller = setOf("po", "casmate", "naman", "lang", "nlang", "ulit", "again")

	headListWords   = []string{"heads", "leadership", "chairs", "chairpersons", "chairmen", "officials"}
	headListPhrases = []string{"department heads", "dept heads", "list of heads", "all heads", "department chairs"}
	headPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`\b(who is|who s|whos|sino) (the |ang )?(head|chair|chairperson)\b`),
		regexp.MustCompile(`\b(head|chair|chairperson) of\b`),
		regexp.MustCompile(`\b(department|dept) (head|chair|chairperson)\b`),
		regexp.MustCompile(`\bheaded by\b`),
	}
	// "who heads the psychology department" asks for one head; a plural
	// object ("who heads the departments") still lists them all.
	whoHeadsRe    = regexp.MustCompile(`\b(who|sino) heads\b`)
	pluralObjects = []string{"departments", "depts", "programs", "colleges", "all"}

	prereqWords = []string{
		"prereq", "prereqs", "prerequisite", "prerequisites", "requirement", "requirements",
		"requisite", "requisites", "kailangan", "dapat",
	}
	unitWords       = []string{"unit", "units", "credit", "credits", "load"}
	instructorWords = []string{
		"instructor", "instructors", "teacher", "teachers", "professor", "professors", "prof",
		"faculty", "lecturer", "teaching",
	}
	subjectWords    = []string{"subject", "subjects", "course", "courses", "class", "classes"}
	curriculumWords = []string{"curriculum", "prospectus", "checklist", "study plan", "plan of study"}
)

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// rules is the intent cascade. The first rule that matches decides.
var rules = []rule{
	{"finance", IntentFinance, func(m *message) bool {
		return m.hasAny(financeWords...)
	}},
	{"goodbye", IntentGoodbye, func(m *message) bool {
		return goodbyePhrases[m.content()] || m.hasAny("bye", "goodbye")
	}},
	{"greeting", IntentGreeting, func(m *message) bool {
		return greetingPhrases[m.content()]
	}},
	{"dean", IntentDeptHeadOne, func(m *message) bool {
		return m.hasAny("dean")
	}},
	{"who_heads", IntentDeptHeadOne, func(m *message) bool {
		return whoHeadsRe.MatchString(m.clean) && !m.hasAny(pluralObjects...)
	}},
	{"heads_list", IntentDeptHeadsList, func(m *message) bool {
		return m.hasAny(headListWords...) || m.hasPhrase(headListPhrases...)
	}},
	{"head_pattern", IntentDeptHeadOne, func(m *message) bool {
		for _, re := range headPatterns {
			if re.MatchString(m.clean) {
				return true
			}
		}
		return false
	}},
	{"prerequisites", IntentPrerequisites, func(m *message) bool {
		return m.hasAny(prereqWords...) || m.hasPhrase("pre req", "pre reqs", "pre requisite")
	}},
	{"units", IntentUnits, func(m *message) bool {
		return m.hasAny(unitWords...)
	}},
	{"instructor", IntentInstructor, func(m *message) bool {
		if m.hasAny(instructorWords...) || m.hasPhrase("who teaches", "who will teach", "who is teaching") {
			return true
		}
		for _, t := range m.tokens {
			if strings.HasPrefix(simplifyTagalog(t), "turo") {
				return true
			}
		}
		return false
	}},
	{"curriculum", IntentCurriculum, func(m *message) bool {
		curriculum := m.hasAny(curriculumWords...) || m.hasPhrase(curriculumWords...)
		if m.hints == nil {
			return curriculum
		}
		program := m.hints.HasProgram(m.raw)
		switch {
		case program && ParseYear(m.clean) > 0:
			return true
		case program && (curriculum || m.hasAny(subjectWords...)):
			return true
		case curriculum:
			return true
		}
		return false
	}},
}

// Classifier assigns one Intent to a question with an ordered rule cascade.
// It holds no per-conversation state.
type Classifier struct {
	hints Hinter
}

// NewClassifier returns a classifier. hints may be nil, in which case the
// curriculum rule only fires on explicit curriculum keywords.
func NewClassifier(hints Hinter) *Classifier {
	return &Classifier{hints: hints}
}

// Classify returns the intent of text. Empty or punctuation-only text is
// IntentCourseInfo.
func (c *Classifier) Classify(text string) Intent {
	intent, _ := c.Explain(text)
	return intent
}

// Explain returns the intent and the name of the rule that chose it
// ("default" when no rule matched).
func (c *Classifier) Explain(text string) (Intent, string) {
	clean := stringutil.Clean(text)
	if clean == "" {
		return IntentCourseInfo, "default"
	}
	tokens := stringutil.Tokenize(clean)
	m := &message{clean: clean, tokens: tokens, set: setOf(tokens...), hints: c.hints, raw: text}
	for _, r := range rules {
		if r.match(m) {
			return r.intent, r.name
		}
	}
	return IntentCourseInfo, "default"
}
