package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/resolver"
)

func TestYearName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "First", yearName(1))
	assert.Equal(t, "Fourth", yearName(4))
	assert.Equal(t, "6th", yearName(6))
}

func TestOrdinal(t *testing.T) {
	t.Parallel()
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 102: "102nd"}
	for n, want := range tests {
		assert.Equal(t, want, ordinal(n), "ordinal(%d)", n)
	}
}

func TestTermName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1st sem", termName(1))
	assert.Equal(t, "2nd sem", termName(2))
	assert.Equal(t, "summer", termName(3))
}

func TestTimeGreeting(t *testing.T) {
	t.Parallel()
	at := func(h int) time.Time { return time.Date(2026, 3, 2, h, 0, 0, 0, time.UTC) }
	assert.Equal(t, "Hello", timeGreeting(at(4)))
	assert.Equal(t, "Good morning", timeGreeting(at(5)))
	assert.Equal(t, "Good morning", timeGreeting(at(11)))
	assert.Equal(t, "Good afternoon", timeGreeting(at(12)))
	assert.Equal(t, "Good afternoon", timeGreeting(at(17)))
	assert.Equal(t, "Hello", timeGreeting(at(18)))
}

func TestUnitsText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1 unit", unitsText(1))
	assert.Equal(t, "0 units", unitsText(0))
	assert.Equal(t, "3 units", unitsText(3))
}

func TestCourseRendering(t *testing.T) {
	t.Parallel()
	courses := []catalog.Course{
		{ID: "CC 111", Code: "CC 111", Title: "Introduction to Computing", Units: 3},
		{ID: "MATHREV", Title: "Math Review", Units: 3},
	}
	assert.Equal(t, "CC 111 Introduction to Computing (3 units)", courseLine(courses[0]))
	assert.Equal(t, "CC 111 Introduction to Computing, Math Review", joinLabels(courses))
}

func TestOptionList(t *testing.T) {
	t.Parallel()
	opts := []resolver.Suggestion{
		{ID: "PSY 202", Code: "PSY 202", Title: "Social Psychology"},
		{ID: "MATHREV", Title: "Math Review"},
	}
	assert.Equal(t, "1) PSY 202 Social Psychology; 2) Math Review", optionList(opts))
}

func TestTermBreakdown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1st sem: 9, 2nd sem: 6, summer: 3", termBreakdown(map[int]int{2: 6, 3: 3, 1: 9}))
	assert.Empty(t, termBreakdown(nil))
}

func TestShortAlias(t *testing.T) {
	t.Parallel()
	assert.True(t, shortAlias("mmw"))
	assert.False(t, shortAlias(""))
	assert.False(t, shortAlias("data structures"))
	assert.False(t, shortAlias("multimedia"))
}
