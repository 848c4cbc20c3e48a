package storage

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/garyellow/casmate/internal/catalog"
)

// flexString accepts a JSON string, number or null. Unit specs arrive as
// 3, "3" or "2/1" depending on who exported the sheet.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexBool accepts true/false, 1/0 and the "Y"/"N" flags used by the
// department sheet.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexBool(parseFlag(string(s)))
	return nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "t":
		return true
	}
	return false
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	n, err := parseInt(string(s))
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

type programRow struct {
	ID           string `json:"program_id"`
	Name         string `json:"program_name"`
	ShortName    string `json:"short_name"`
	DepartmentID string `json:"department_id"`
}

func (r programRow) toProgram() catalog.Program {
	return catalog.Program{
		ID:           strings.TrimSpace(r.ID),
		Name:         strings.TrimSpace(r.Name),
		ShortName:    strings.TrimSpace(r.ShortName),
		DepartmentID: strings.TrimSpace(r.DepartmentID),
	}
}

type courseRow struct {
	ID         string     `json:"course_id"`
	Code       string     `json:"course_code"`
	Title      string     `json:"course_title"`
	Units      flexString `json:"units"`
	ProgramID  string     `json:"program_id"`
	Diagnostic flexBool   `json:"diagnostic"`
}

func (r courseRow) toCourse() catalog.Course {
	return catalog.Course{
		ID:         strings.TrimSpace(r.ID),
		Code:       strings.TrimSpace(r.Code),
		Title:      strings.TrimSpace(r.Title),
		UnitsSpec:  strings.TrimSpace(string(r.Units)),
		ProgramID:  strings.TrimSpace(r.ProgramID),
		Diagnostic: bool(r.Diagnostic),
	}
}

type departmentRow struct {
	ID   string   `json:"department_id"`
	Name string   `json:"department_name"`
	Head string   `json:"head_name"`
	Dean flexBool `json:"dean_flag"`
}

func (r departmentRow) toDepartment() catalog.Department {
	return catalog.Department{
		ID:   strings.TrimSpace(r.ID),
		Name: strings.TrimSpace(r.Name),
		Head: strings.TrimSpace(r.Head),
		Dean: bool(r.Dean),
	}
}

type planRow struct {
	ProgramID string  `json:"program_id"`
	Year      flexInt `json:"year_level"`
	Term      flexInt `json:"semester"`
	CourseID  string  `json:"course_id"`
}

func (r planRow) toEntry() catalog.PlanEntry {
	return catalog.PlanEntry{
		ProgramID: strings.TrimSpace(r.ProgramID),
		Year:      int(r.Year),
		Term:      int(r.Term),
		CourseID:  strings.TrimSpace(r.CourseID),
	}
}

// nestedPlan is the document shape exported by the curriculum editor:
// program -> years -> terms -> course ids.
type nestedPlan struct {
	ProgramID string `json:"program_id"`
	Years     []struct {
		Year  flexInt `json:"year_level"`
		Terms []struct {
			Term    flexInt  `json:"semester"`
			Courses []string `json:"courses"`
		} `json:"terms"`
	} `json:"years"`
}

func (n nestedPlan) flatten() []catalog.PlanEntry {
	var out []catalog.PlanEntry
	for _, y := range n.Years {
		for _, t := range y.Terms {
			for _, id := range t.Courses {
				out = append(out, catalog.PlanEntry{
					ProgramID: strings.TrimSpace(n.ProgramID),
					Year:      int(y.Year),
					Term:      int(t.Term),
					CourseID:  strings.TrimSpace(id),
				})
			}
		}
	}
	return out
}

type prereqRow struct {
	CourseID string `json:"course_id"`
	PrereqID string `json:"prereq_course_id"`
	Type     string `json:"type"`
}

func (r prereqRow) toEdge() catalog.PrereqEdge {
	return catalog.PrereqEdge{
		CourseID: strings.TrimSpace(r.CourseID),
		PrereqID: strings.TrimSpace(r.PrereqID),
		Type:     strings.TrimSpace(r.Type),
	}
}
