package catalog

import "fmt"

// IssueType classifies a data integrity problem.
type IssueType string

const (
	IssueDanglingPrereq    IssueType = "dangling_prereq"
	IssueSelfPrereq        IssueType = "self_prereq"
	IssueDanglingPlan      IssueType = "dangling_plan"
	IssueUnknownProgram    IssueType = "unknown_program"
	IssueUnknownDepartment IssueType = "unknown_department"
	IssueDanglingAlias     IssueType = "dangling_alias"
	IssueInvalidUnits      IssueType = "invalid_units"
	IssueDuplicateCode     IssueType = "duplicate_code"
	IssuePrereqCycle       IssueType = "prereq_cycle"
)

// Issue is one integrity problem found while building a Catalog.
// Issues never stop a load; the offending rows are skipped by queries.
type Issue struct {
	Type   IssueType `json:"type"`
	Ref    string    `json:"ref"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Type, i.Ref, i.Detail)
}

// detectCycles records one prereq_cycle issue per strongly connected loop
// reachable through valid edges. Queries stay safe regardless because every
// traversal tracks visited nodes.
func (c *Catalog) detectCycles() {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(c.courses))
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		for _, p := range c.GetPrerequisites(id) {
			switch color[p.ID] {
			case white:
				visit(p.ID)
			case grey:
				start := len(stack) - 1
				for start > 0 && stack[start] != p.ID {
					start--
				}
				c.addIssue(IssuePrereqCycle, p.ID, fmt.Sprintf("cycle through %v", append(append([]string(nil), stack[start:]...), p.ID)))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, course := range c.courses {
		if color[course.ID] == white {
			visit(course.ID)
		}
	}
}
