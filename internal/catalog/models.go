// Package catalog holds the immutable in-memory college catalog: programs,
// courses, departments, curriculum plans and prerequisite edges.
//
// A Catalog is built once by New and never mutated afterwards, so it can be
// shared across goroutines without locking. Reloading means building a new
// Catalog.
package catalog

// Program is a degree program offered by the college.
type Program struct {
	ID           string `json:"program_id"`
	Name         string `json:"program_name"`
	ShortName    string `json:"short_name,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}

// DisplayName returns the full program name.
func (p Program) DisplayName() string {
	return p.Name
}

// Course is a single subject. Code may be empty for diagnostic or
// no-code rows, in which case ID is what plans and prerequisites refer to.
type Course struct {
	ID         string `json:"course_id"`
	Code       string `json:"course_code,omitempty"`
	Title      string `json:"course_title"`
	UnitsSpec  string `json:"units_spec,omitempty"` // raw credit spec, e.g. "3" or "2/1"
	Units      int    `json:"units"`
	ProgramID  string `json:"program_id,omitempty"`
	Diagnostic bool   `json:"diagnostic,omitempty"` // placement-dependent, excluded from unit totals
}

// DisplayCode returns the course code, falling back to the ID.
func (c Course) DisplayCode() string {
	if c.Code != "" {
		return c.Code
	}
	return c.ID
}

// Label renders "CODE Title", or just the title when the course has no code.
func (c Course) Label() string {
	if c.Code == "" {
		return c.Title
	}
	return c.Code + " " + c.Title
}

// Department is an academic department. Head is empty while the post is vacant.
type Department struct {
	ID   string `json:"department_id"`
	Name string `json:"department_name"`
	Head string `json:"head_name,omitempty"`
	Dean bool   `json:"dean"` // marks the single college dean's office
}

// PlanEntry places a course in a program's curriculum at a year level and term.
type PlanEntry struct {
	ProgramID string `json:"program_id"`
	Year      int    `json:"year_level"`
	Term      int    `json:"semester"`
	CourseID  string `json:"course_id"`
}

// PrereqEdge says CourseID requires PrereqID. Edges are directed.
type PrereqEdge struct {
	CourseID string `json:"course_id"`
	PrereqID string `json:"prereq_course_id"`
	Type     string `json:"type,omitempty"` // normally "course"
}

// AliasEntry maps hand-curated variants onto one canonical name.
type AliasEntry struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Variants  []string `yaml:"variants" json:"variants"`
}

// Aliases are the hand-curated synonym tables.
type Aliases struct {
	Programs    []AliasEntry `yaml:"programs" json:"programs"`
	Courses     []AliasEntry `yaml:"courses" json:"courses"`
	Departments []AliasEntry `yaml:"departments" json:"departments"`

	// Abbreviations expands single query tokens ("intro" -> "introduction").
	Abbreviations map[string]string `yaml:"abbreviations" json:"abbreviations"`
}

// Alias is a resolved alias: a variant phrase pointing at a catalog ID.
type Alias struct {
	Variant string
	ID      string
}

// Data is the raw material for a Catalog, as produced by a loader.
type Data struct {
	Programs      []Program
	Courses       []Course
	Departments   []Department
	Plan          []PlanEntry
	Prerequisites []PrereqEdge
	Aliases       Aliases
}

// Placement is one (program, year, term) slot that lists a course.
type Placement struct {
	Program Program `json:"program"`
	Year    int     `json:"year_level"`
	Term    int     `json:"semester"`
}

// UnitSummary is the unit load of one program year.
type UnitSummary struct {
	Total              int         `json:"total"`
	ByTerm             map[int]int `json:"by_term"`
	DiagnosticExcluded bool        `json:"diagnostic_excluded"`
	Excluded           []Course    `json:"excluded,omitempty"`
}
