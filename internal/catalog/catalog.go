package catalog

import (
	"fmt"
	"strings"

	domerrors "github.com/garyellow/casmate/internal/errors"
	"github.com/garyellow/casmate/internal/sliceutil"
	"github.com/garyellow/casmate/internal/stringutil"
)

// Catalog is the read-only lookup structure over one loaded dataset.
type Catalog struct {
	programs    []Program
	courses     []Course
	departments []Department
	plan        []PlanEntry
	prereqs     []PrereqEdge

	programByID    map[string]int
	courseByID     map[string]int
	courseByCode   map[string]int // compact code -> index
	departmentByID map[string]int
	prereqsOf      map[string][]int // course ID -> edge indexes, insertion order
	planOf         map[string][]int // program ID -> plan indexes, plan order

	programAliases    []Alias
	courseAliases     []Alias
	departmentAliases []Alias
	abbreviations     map[string]string

	issues []Issue
}

// New validates d, enriches it (credit units, diagnostic flags, plan dedup)
// and builds the lookup indexes.
//
// Structural problems (missing or duplicate IDs, empty names) fail with a
// ValidationError. Broken references are recorded as Issues and skipped at
// query time.
func New(d Data) (*Catalog, error) {
	c := &Catalog{
		programByID:    make(map[string]int, len(d.Programs)),
		courseByID:     make(map[string]int, len(d.Courses)),
		courseByCode:   make(map[string]int, len(d.Courses)),
		departmentByID: make(map[string]int, len(d.Departments)),
		prereqsOf:      make(map[string][]int),
		planOf:         make(map[string][]int),
	}

	if err := c.addDepartments(d.Departments); err != nil {
		return nil, err
	}
	if err := c.addPrograms(d.Programs); err != nil {
		return nil, err
	}
	if err := c.addCourses(d.Courses); err != nil {
		return nil, err
	}
	c.addPlan(d.Plan)
	c.addPrereqs(d.Prerequisites)
	c.addAliases(d.Aliases)
	c.detectCycles()

	return c, nil
}

func (c *Catalog) addDepartments(depts []Department) error {
	for _, dept := range depts {
		dept.ID = strings.TrimSpace(dept.ID)
		dept.Name = strings.TrimSpace(dept.Name)
		dept.Head = strings.TrimSpace(dept.Head)
		if dept.ID == "" {
			return domerrors.NewValidationError("department_id", fmt.Sprintf("empty id for department %q", dept.Name))
		}
		if dept.Name == "" {
			return domerrors.NewValidationError("department_name", fmt.Sprintf("department %s has no name", dept.ID))
		}
		if _, dup := c.departmentByID[dept.ID]; dup {
			return domerrors.NewValidationError("department_id", fmt.Sprintf("duplicate department %s", dept.ID))
		}
		c.departmentByID[dept.ID] = len(c.departments)
		c.departments = append(c.departments, dept)
	}
	return nil
}

func (c *Catalog) addPrograms(programs []Program) error {
	for _, p := range programs {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.ShortName = strings.TrimSpace(p.ShortName)
		if p.ID == "" {
			return domerrors.NewValidationError("program_id", fmt.Sprintf("empty id for program %q", p.Name))
		}
		if p.Name == "" {
			return domerrors.NewValidationError("program_name", fmt.Sprintf("program %s has no name", p.ID))
		}
		if _, dup := c.programByID[p.ID]; dup {
			return domerrors.NewValidationError("program_id", fmt.Sprintf("duplicate program %s", p.ID))
		}
		if p.DepartmentID != "" {
			if _, ok := c.departmentByID[p.DepartmentID]; !ok {
				c.addIssue(IssueUnknownDepartment, p.ID, "department "+p.DepartmentID)
			}
		}
		c.programByID[p.ID] = len(c.programs)
		c.programs = append(c.programs, p)
	}
	return nil
}

func (c *Catalog) addCourses(courses []Course) error {
	for _, course := range courses {
		course.ID = strings.TrimSpace(course.ID)
		course.Code = strings.TrimSpace(course.Code)
		course.Title = strings.TrimSpace(course.Title)
		if course.ID == "" {
			course.ID = course.Code
		}
		if course.ID == "" {
			return domerrors.NewValidationError("course_id", fmt.Sprintf("course %q has neither id nor code", course.Title))
		}
		if course.Title == "" {
			return domerrors.NewValidationError("course_title", fmt.Sprintf("course %s has no title", course.ID))
		}
		if _, dup := c.courseByID[course.ID]; dup {
			return domerrors.NewValidationError("course_id", fmt.Sprintf("duplicate course %s", course.ID))
		}

		if course.Units == 0 && course.UnitsSpec != "" {
			units, ok := ParseUnits(course.UnitsSpec)
			if !ok {
				c.addIssue(IssueInvalidUnits, course.ID, fmt.Sprintf("unrecognized units %q", course.UnitsSpec))
			}
			course.Units = units
		}
		if !course.Diagnostic && looksDiagnostic(course) {
			course.Diagnostic = true
		}
		if course.ProgramID != "" {
			if _, ok := c.programByID[course.ProgramID]; !ok {
				c.addIssue(IssueUnknownProgram, course.ID, "program "+course.ProgramID)
			}
		}

		idx := len(c.courses)
		c.courseByID[course.ID] = idx
		if course.Code != "" {
			code := stringutil.CompactCode(course.Code)
			if _, dup := c.courseByCode[code]; dup {
				c.addIssue(IssueDuplicateCode, course.ID, "code "+course.Code)
			} else {
				c.courseByCode[code] = idx
			}
		}
		c.courses = append(c.courses, course)
	}
	return nil
}

func (c *Catalog) addPlan(plan []PlanEntry) {
	type planKey struct {
		program, course string
		year, term      int
	}
	unique := sliceutil.Deduplicate(plan, func(e PlanEntry) planKey {
		return planKey{program: e.ProgramID, course: e.CourseID, year: e.Year, term: e.Term}
	})

	for _, e := range unique {
		if _, ok := c.programByID[e.ProgramID]; !ok {
			c.addIssue(IssueUnknownProgram, e.CourseID, "plan program "+e.ProgramID)
		}
		if _, ok := c.courseByID[e.CourseID]; !ok {
			c.addIssue(IssueDanglingPlan, e.ProgramID, fmt.Sprintf("year %d term %d course %s", e.Year, e.Term, e.CourseID))
		}
		c.planOf[e.ProgramID] = append(c.planOf[e.ProgramID], len(c.plan))
		c.plan = append(c.plan, e)
	}
}

func (c *Catalog) addPrereqs(edges []PrereqEdge) {
	for _, e := range edges {
		if e.Type == "" {
			e.Type = "course"
		}
		switch {
		case e.CourseID == e.PrereqID:
			c.addIssue(IssueSelfPrereq, e.CourseID, "course lists itself")
			continue
		case !c.hasCourse(e.CourseID):
			c.addIssue(IssueDanglingPrereq, e.CourseID, "unknown course")
		case !c.hasCourse(e.PrereqID):
			c.addIssue(IssueDanglingPrereq, e.CourseID, "unknown prerequisite "+e.PrereqID)
		}
		c.prereqsOf[e.CourseID] = append(c.prereqsOf[e.CourseID], len(c.prereqs))
		c.prereqs = append(c.prereqs, e)
	}
}

func (c *Catalog) addAliases(a Aliases) {
	c.programAliases = c.resolveAliases(a.Programs, func(name string) (string, bool) {
		for _, p := range c.programs {
			if sameName(name, p.Name) || sameName(name, p.ShortName) || sameName(name, p.ID) {
				return p.ID, true
			}
		}
		return "", false
	})
	c.courseAliases = c.resolveAliases(a.Courses, func(name string) (string, bool) {
		if course, ok := c.CourseByCode(name); ok {
			return course.ID, true
		}
		for _, course := range c.courses {
			if sameName(name, course.Title) || sameName(name, course.ID) {
				return course.ID, true
			}
		}
		return "", false
	})
	c.departmentAliases = c.resolveAliases(a.Departments, func(name string) (string, bool) {
		for _, d := range c.departments {
			if sameName(name, d.Name) || sameName(name, d.ID) {
				return d.ID, true
			}
		}
		return "", false
	})

	c.abbreviations = make(map[string]string, len(a.Abbreviations))
	for k, v := range a.Abbreviations {
		c.abbreviations[k] = v
	}
}

func (c *Catalog) resolveAliases(entries []AliasEntry, lookup func(string) (string, bool)) []Alias {
	var out []Alias
	for _, entry := range entries {
		id, ok := lookup(entry.Canonical)
		if !ok {
			c.addIssue(IssueDanglingAlias, entry.Canonical, "canonical name not in catalog")
			continue
		}
		for _, v := range entry.Variants {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, Alias{Variant: v, ID: id})
			}
		}
	}
	return out
}

func sameName(a, b string) bool {
	return b != "" && stringutil.Clean(a) == stringutil.Clean(b)
}

func (c *Catalog) hasCourse(id string) bool {
	_, ok := c.courseByID[id]
	return ok
}

func (c *Catalog) addIssue(t IssueType, ref, detail string) {
	c.issues = append(c.issues, Issue{Type: t, Ref: ref, Detail: detail})
}

// Program returns the program with the given ID.
func (c *Catalog) Program(id string) (Program, bool) {
	i, ok := c.programByID[id]
	if !ok {
		return Program{}, false
	}
	return c.programs[i], true
}

// Course returns the course with the given ID.
func (c *Catalog) Course(id string) (Course, bool) {
	i, ok := c.courseByID[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// CourseByCode looks a course up by code, ignoring case, spaces and hyphens.
func (c *Catalog) CourseByCode(code string) (Course, bool) {
	compact := stringutil.CompactCode(code)
	if compact == "" {
		return Course{}, false
	}
	i, ok := c.courseByCode[compact]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// HasCode reports whether code (in any spacing) is a known course code.
func (c *Catalog) HasCode(code string) bool {
	_, ok := c.courseByCode[stringutil.CompactCode(code)]
	return ok
}

// Department returns the department with the given ID.
func (c *Catalog) Department(id string) (Department, bool) {
	i, ok := c.departmentByID[id]
	if !ok {
		return Department{}, false
	}
	return c.departments[i], true
}

// Programs returns every program in load order.
func (c *Catalog) Programs() []Program {
	return append([]Program(nil), c.programs...)
}

// Courses returns every course in load order.
func (c *Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

// Departments returns every department in load order.
func (c *Catalog) Departments() []Department {
	return append([]Department(nil), c.departments...)
}

// ProgramAliases returns the resolved program alias variants.
func (c *Catalog) ProgramAliases() []Alias { return append([]Alias(nil), c.programAliases...) }

// CourseAliases returns the resolved course alias variants.
func (c *Catalog) CourseAliases() []Alias { return append([]Alias(nil), c.courseAliases...) }

// DepartmentAliases returns the resolved department alias variants.
func (c *Catalog) DepartmentAliases() []Alias { return append([]Alias(nil), c.departmentAliases...) }

// Abbreviations returns a copy of the token abbreviation table.
func (c *Catalog) Abbreviations() map[string]string {
	out := make(map[string]string, len(c.abbreviations))
	for k, v := range c.abbreviations {
		out[k] = v
	}
	return out
}

// Issues returns the integrity problems found while building the catalog.
func (c *Catalog) Issues() []Issue {
	return append([]Issue(nil), c.issues...)
}

// Data returns a copy of the catalog rows, suitable for re-export.
func (c *Catalog) Data() Data {
	d := Data{
		Programs:      c.Programs(),
		Courses:       c.Courses(),
		Departments:   c.Departments(),
		Plan:          append([]PlanEntry(nil), c.plan...),
		Prerequisites: append([]PrereqEdge(nil), c.prereqs...),
		Aliases:       Aliases{Abbreviations: c.Abbreviations()},
	}
	d.Aliases.Programs = c.aliasEntries(c.programAliases, func(id string) string {
		p, _ := c.Program(id)
		return p.Name
	})
	d.Aliases.Courses = c.aliasEntries(c.courseAliases, func(id string) string {
		course, _ := c.Course(id)
		return course.Title
	})
	d.Aliases.Departments = c.aliasEntries(c.departmentAliases, func(id string) string {
		dept, _ := c.Department(id)
		return dept.Name
	})
	return d
}

func (c *Catalog) aliasEntries(aliases []Alias, canonical func(id string) string) []AliasEntry {
	var out []AliasEntry
	index := make(map[string]int)
	for _, a := range aliases {
		i, ok := index[a.ID]
		if !ok {
			i = len(out)
			index[a.ID] = i
			out = append(out, AliasEntry{Canonical: canonical(a.ID)})
		}
		out[i].Variants = append(out[i].Variants, a.Variant)
	}
	return out
}

// Stats reports row counts per table.
func (c *Catalog) Stats() map[string]int {
	return map[string]int{
		"programs":      len(c.programs),
		"courses":       len(c.courses),
		"departments":   len(c.departments),
		"plan":          len(c.plan),
		"prerequisites": len(c.prereqs),
		"aliases":       len(c.programAliases) + len(c.courseAliases) + len(c.departmentAliases),
	}
}

// Years returns the year levels that appear in a program's plan, ascending.
func (c *Catalog) Years(programID string) []int {
	return sliceutil.SortedUnique(c.planOf[programID], func(i int) int { return c.plan[i].Year })
}

// Terms returns the terms that appear in a program year, ascending.
func (c *Catalog) Terms(programID string, year int) []int {
	var terms []int
	for _, i := range c.planOf[programID] {
		if c.plan[i].Year == year {
			terms = append(terms, c.plan[i].Term)
		}
	}
	return sliceutil.SortedUnique(terms, func(t int) int { return t })
}
