package catalog

import (
	"github.com/garyellow/casmate/internal/sliceutil"
)

// GetPrerequisites returns the direct prerequisites of a course in edge
// insertion order. Edges pointing at unknown courses or at the course itself
// are skipped, and a prerequisite listed twice is returned once.
func (c *Catalog) GetPrerequisites(courseID string) []Course {
	idxs := c.prereqsOf[courseID]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Course, 0, len(idxs))
	for _, i := range idxs {
		e := c.prereqs[i]
		if e.PrereqID == courseID {
			continue
		}
		if p, ok := c.Course(e.PrereqID); ok {
			out = append(out, p)
		}
	}
	return sliceutil.Deduplicate(out, func(p Course) string { return p.ID })
}

// PrerequisiteChain returns every course that must be taken before courseID,
// nearest first. The walk is breadth-first and visits each course once, so
// cycles terminate.
func (c *Catalog) PrerequisiteChain(courseID string) []Course {
	visited := map[string]bool{courseID: true}
	queue := []string{courseID}
	var out []Course
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, p := range c.GetPrerequisites(id) {
			if visited[p.ID] {
				continue
			}
			visited[p.ID] = true
			out = append(out, p)
			queue = append(queue, p.ID)
		}
	}
	return out
}

// CoursesFor lists the courses a program schedules in one year and term, in
// plan order. A term of 0 selects the whole year. Plan rows that reference
// unknown courses are skipped.
func (c *Catalog) CoursesFor(programID string, year, term int) []Course {
	var out []Course
	for _, i := range c.planOf[programID] {
		e := c.plan[i]
		if e.Year != year || (term != 0 && e.Term != term) {
			continue
		}
		if course, ok := c.Course(e.CourseID); ok {
			out = append(out, course)
		}
	}
	return out
}

// UnitsFor totals the units of one program year. Diagnostic placement
// courses are left out of both the total and the per-term sums, and
// DiagnosticExcluded reports whether any were.
func (c *Catalog) UnitsFor(programID string, year int) UnitSummary {
	sum := UnitSummary{ByTerm: make(map[int]int)}
	for _, i := range c.planOf[programID] {
		e := c.plan[i]
		if e.Year != year {
			continue
		}
		course, ok := c.Course(e.CourseID)
		if !ok {
			continue
		}
		if course.Diagnostic {
			sum.DiagnosticExcluded = true
			sum.Excluded = append(sum.Excluded, course)
			continue
		}
		sum.Total += course.Units
		sum.ByTerm[e.Term] += course.Units
	}
	return sum
}

// PlacementsOf returns every (program, year, term) slot that lists the course.
func (c *Catalog) PlacementsOf(courseID string) []Placement {
	var out []Placement
	for _, e := range c.plan {
		if e.CourseID != courseID {
			continue
		}
		p, ok := c.Program(e.ProgramID)
		if !ok {
			continue
		}
		out = append(out, Placement{Program: p, Year: e.Year, Term: e.Term})
	}
	return out
}

// ProgramsOffering returns the distinct programs whose plan lists the course,
// in first-seen order.
func (c *Catalog) ProgramsOffering(courseID string) []Program {
	var out []Program
	for _, pl := range c.PlacementsOf(courseID) {
		out = append(out, pl.Program)
	}
	return sliceutil.Deduplicate(out, func(p Program) string { return p.ID })
}

// DepartmentForProgram returns the department that owns a program.
func (c *Catalog) DepartmentForProgram(programID string) (Department, bool) {
	p, ok := c.Program(programID)
	if !ok || p.DepartmentID == "" {
		return Department{}, false
	}
	return c.Department(p.DepartmentID)
}

// Dean returns the department flagged as the college dean's office.
func (c *Catalog) Dean() (Department, bool) {
	for _, d := range c.departments {
		if d.Dean {
			return d, true
		}
	}
	return Department{}, false
}

// DepartmentHeads returns every non-dean department in load order.
func (c *Catalog) DepartmentHeads() []Department {
	var out []Department
	for _, d := range c.departments {
		if !d.Dean {
			out = append(out, d)
		}
	}
	return out
}

// SourceFor names who answers for a program's data: the head of its
// department, or the dean's office when the program has no department.
// It returns "" when neither is known.
func (c *Catalog) SourceFor(programID string) string {
	d, ok := c.DepartmentForProgram(programID)
	if !ok {
		d, ok = c.Dean()
	}
	if !ok {
		return ""
	}
	if d.Dean {
		return "Dean, " + d.Name + " (internal)"
	}
	return "Department Head, " + d.Name + " (internal)"
}
