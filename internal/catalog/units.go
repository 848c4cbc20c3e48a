package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "3 (2/1)": explicit total followed by a lecture/lab breakdown
	totalWithSplitRe = regexp.MustCompile(`^(\d+)\s*\(\s*\d+\s*/\s*\d+\s*\)$`)
	// "2/1" or "2 / 1": lecture/lab composite
	splitRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
)

// ParseUnits turns a raw credit string into total units.
// It accepts a plain integer, a "lecture/lab" composite and a total with a
// parenthesized breakdown. ok is false when the text is unrecognized.
func ParseUnits(raw string) (units int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	if m := totalWithSplitRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := splitRe.FindStringSubmatch(s); m != nil {
		lec, _ := strconv.Atoi(m[1])
		lab, _ := strconv.Atoi(m[2])
		return lec + lab, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f), true
	}
	return 0, false
}

// looksDiagnostic reports whether a course is a placement review subject:
// it has no course code and its title says "review".
func looksDiagnostic(c Course) bool {
	return strings.TrimSpace(c.Code) == "" && strings.Contains(strings.ToLower(c.Title), "review")
}
