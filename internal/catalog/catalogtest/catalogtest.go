// Package catalogtest builds a small College of Arts and Sciences catalog
// for tests in other packages.
package catalogtest

import (
	"testing"

	"github.com/garyellow/casmate/internal/catalog"
)

// Program IDs in the fixture.
const (
	BSCS   = "BSCS"
	BSPSY  = "BSPSY"
	ABCOMM = "ABCOMM"
)

// Data returns the fixture rows. Each call returns fresh slices.
func Data() catalog.Data {
	return catalog.Data{
		Departments: []catalog.Department{
			{ID: "CAS", Name: "College of Arts and Sciences", Head: "Dr. Maria Santos", Dean: true},
			{ID: "DCS", Name: "Department of Computer Science", Head: "Engr. Jose Reyes"},
			{ID: "DPSY", Name: "Department of Psychology", Head: "Dr. Ana Cruz"},
			{ID: "DCOMM", Name: "Department of Communication"},
		},
		Programs: []catalog.Program{
			{ID: BSCS, Name: "Bachelor of Science in Computer Science", ShortName: "BSCS", DepartmentID: "DCS"},
			{ID: BSPSY, Name: "Bachelor of Science in Psychology", ShortName: "BS Psych", DepartmentID: "DPSY"},
			{ID: ABCOMM, Name: "Bachelor of Arts in Communication", ShortName: "AB Comm", DepartmentID: "DCOMM"},
		},
		Courses: []catalog.Course{
			{Code: "CC 111", Title: "Introduction to Computing", UnitsSpec: "2/1", ProgramID: BSCS},
			{Code: "CC 112", Title: "Computer Programming 1", UnitsSpec: "3", ProgramID: BSCS},
			{Code: "CC 123", Title: "Intermediate Programming", UnitsSpec: "3", ProgramID: BSCS},
			{Code: "CC 211", Title: "Data Structures and Algorithm", UnitsSpec: "3 (2/1)", ProgramID: BSCS},
			{Code: "CS 213", Title: "Multimedia Systems", UnitsSpec: "3", ProgramID: BSCS},
			{Code: "GEC 104", Title: "Mathematics in the Modern World", UnitsSpec: "3"},
			{Code: "GEC 105", Title: "Purposive Communication", UnitsSpec: "3"},
			{Code: "GEE 101", Title: "Living in the IT Era", UnitsSpec: "3"},
			{ID: "MATHREV", Title: "Math Review", UnitsSpec: "3"},
			{Code: "PSY 101", Title: "Introduction to Psychology", UnitsSpec: "3", ProgramID: BSPSY},
			{Code: "PSY 202", Title: "Social Psychology", UnitsSpec: "3", ProgramID: BSPSY},
			{Code: "PSY 305", Title: "Community Health Psychology", UnitsSpec: "3", ProgramID: BSPSY},
			{Code: "COM 101", Title: "Communication Theory", UnitsSpec: "3", ProgramID: ABCOMM},
			{Code: "IS 101", Title: "Fundamentals of Information Systems", UnitsSpec: "3"},
			{Code: "NSTP 1", Title: "National Service Training Program 1", UnitsSpec: "3"},
		},
		Plan: []catalog.PlanEntry{
			{ProgramID: BSCS, Year: 1, Term: 1, CourseID: "CC 111"},
			{ProgramID: BSCS, Year: 1, Term: 1, CourseID: "GEC 104"},
			{ProgramID: BSCS, Year: 1, Term: 1, CourseID: "MATHREV"},
			{ProgramID: BSCS, Year: 1, Term: 1, CourseID: "GEC 105"},
			{ProgramID: BSCS, Year: 1, Term: 2, CourseID: "CC 112"},
			{ProgramID: BSCS, Year: 1, Term: 2, CourseID: "GEE 101"},
			{ProgramID: BSCS, Year: 2, Term: 1, CourseID: "CC 123"},
			{ProgramID: BSCS, Year: 2, Term: 1, CourseID: "CS 213"},
			{ProgramID: BSCS, Year: 2, Term: 2, CourseID: "CC 211"},
			{ProgramID: BSPSY, Year: 1, Term: 1, CourseID: "PSY 101"},
			{ProgramID: BSPSY, Year: 1, Term: 1, CourseID: "GEC 104"},
			{ProgramID: BSPSY, Year: 1, Term: 2, CourseID: "GEC 105"},
			{ProgramID: BSPSY, Year: 2, Term: 1, CourseID: "PSY 202"},
			{ProgramID: BSPSY, Year: 3, Term: 2, CourseID: "PSY 305"},
			{ProgramID: ABCOMM, Year: 1, Term: 1, CourseID: "COM 101"},
			{ProgramID: ABCOMM, Year: 1, Term: 1, CourseID: "GEC 105"},
			{ProgramID: ABCOMM, Year: 1, Term: 2, CourseID: "GEE 101"},
		},
		Prerequisites: []catalog.PrereqEdge{
			{CourseID: "CC 112", PrereqID: "CC 111"},
			{CourseID: "CC 123", PrereqID: "CC 112"},
			{CourseID: "CC 211", PrereqID: "CC 123"},
			{CourseID: "CS 213", PrereqID: "GEE 101"},
			{CourseID: "GEC 104", PrereqID: "MATHREV"},
			{CourseID: "PSY 202", PrereqID: "PSY 101"},
			{CourseID: "PSY 305", PrereqID: "PSY 101"},
			{CourseID: "PSY 305", PrereqID: "PSY 202"},
		},
		Aliases: catalog.Aliases{
			Programs: []catalog.AliasEntry{
				{Canonical: "Bachelor of Science in Computer Science", Variants: []string{"cs", "comsci", "computer science"}},
				{Canonical: "Bachelor of Science in Psychology", Variants: []string{"psych", "bspsy", "bs psych"}},
				{Canonical: "Bachelor of Arts in Communication", Variants: []string{"comm", "abcomm", "masscom"}},
			},
			Courses: []catalog.AliasEntry{
				{Canonical: "Data Structures and Algorithm", Variants: []string{"data structures", "dsa"}},
				{Canonical: "Mathematics in the Modern World", Variants: []string{"mmw", "math in the modern world"}},
				{Canonical: "Multimedia Systems", Variants: []string{"multimedia"}},
				{Canonical: "Living in the IT Era", Variants: []string{"lite", "it era"}},
			},
			Departments: []catalog.AliasEntry{
				{Canonical: "Department of Computer Science", Variants: []string{"cs department", "dcs"}},
				{Canonical: "Department of Psychology", Variants: []string{"psychology department", "psych department"}},
				{Canonical: "College of Arts and Sciences", Variants: []string{"cas", "dean's office"}},
			},
			Abbreviations: map[string]string{
				"intro": "introduction",
				"prog":  "programming",
				"math":  "mathematics",
				"comm":  "communication",
				"comp":  "computing",
			},
		},
	}
}

// New builds the fixture catalog, failing the test on error.
func New(tb testing.TB) *catalog.Catalog {
	tb.Helper()
	c, err := catalog.New(Data())
	if err != nil {
		tb.Fatalf("build fixture catalog: %v", err)
	}
	return c
}
