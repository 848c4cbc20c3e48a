package bot

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/resolver"
)

var yearNames = map[int]string{1: "First", 2: "Second", 3: "Third", 4: "Fourth", 5: "Fifth"}

// yearName renders a year level the way the registrar writes it ("First").
func yearName(y int) string {
	if n, ok := yearNames[y]; ok {
		return n
	}
	return ordinal(y)
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// termName renders a term number; 3 is the summer or midyear term.
func termName(t int) string {
	if t == 3 {
		return "summer"
	}
	return ordinal(t) + " sem"
}

// timeGreeting picks a greeting for the hour of t.
func timeGreeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Good morning"
	case h >= 12 && h < 18:
		return "Good afternoon"
	default:
		return "Hello"
	}
}

func unitsText(n int) string {
	if n == 1 {
		return "1 unit"
	}
	return strconv.Itoa(n) + " units"
}

// courseLine renders "CODE Title (N units)".
func courseLine(c catalog.Course) string {
	return fmt.Sprintf("%s (%s)", c.Label(), unitsText(c.Units))
}

// joinLabels renders "CC 111 Introduction to Computing, CC 112 ...".
func joinLabels(courses []catalog.Course) string {
	parts := make([]string, len(courses))
	for i, c := range courses {
		parts[i] = c.Label()
	}
	return strings.Join(parts, ", ")
}

// optionList numbers suggestions: "1) CC 111 Introduction to Computing; 2) ...".
func optionList(opts []resolver.Suggestion) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = fmt.Sprintf("%d) %s", i+1, suggestionLabel(o))
	}
	return strings.Join(parts, "; ")
}

func suggestionLabel(s resolver.Suggestion) string {
	if s.Code == "" {
		return s.Title
	}
	return s.Code + " " + s.Title
}

// termBreakdown renders "1st sem: 9, 2nd sem: 6" in term order.
func termBreakdown(byTerm map[int]int) string {
	terms := make([]int, 0, len(byTerm))
	for t := range byTerm {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%s: %d", termName(t), byTerm[t])
	}
	return strings.Join(parts, ", ")
}

// shortAlias reports whether an alias reads as an acronym ("mmw").
func shortAlias(alias string) bool {
	return alias != "" && !strings.Contains(alias, " ") && len(alias) <= 5
}
