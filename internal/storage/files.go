package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/garyellow/casmate/internal/catalog"
	domerrors "github.com/garyellow/casmate/internal/errors"
)

// Table file stems inside a data directory.
const (
	TablePrograms      = "programs"
	TableCourses       = "courses"
	TableDepartments   = "departments"
	TableCurriculum    = "curriculum"
	TablePrerequisites = "prerequisites"
)

// tableExts lists accepted extensions in lookup order.
var tableExts = []string{".json", ".json.zst", ".csv", ".csv.zst"}

// FindTable returns the path of the first existing file for a table stem.
func FindTable(dir, table string) (string, bool) {
	for _, ext := range tableExts {
		p := filepath.Join(dir, table+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// LoadDir reads every table file in dir concurrently. Programs and courses
// are required; the other tables default to empty. Aliases are not read here.
func LoadDir(ctx context.Context, dir string) (catalog.Data, error) {
	var d catalog.Data
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := loadTable(ctx, dir, TablePrograms, true, csvProgram)
		for _, r := range rows {
			d.Programs = append(d.Programs, r.toProgram())
		}
		return err
	})
	g.Go(func() error {
		rows, err := loadTable(ctx, dir, TableCourses, true, csvCourse)
		for _, r := range rows {
			d.Courses = append(d.Courses, r.toCourse())
		}
		return err
	})
	g.Go(func() error {
		rows, err := loadTable(ctx, dir, TableDepartments, false, csvDepartment)
		for _, r := range rows {
			d.Departments = append(d.Departments, r.toDepartment())
		}
		return err
	})
	g.Go(func() error {
		entries, err := loadCurriculum(ctx, dir)
		d.Plan = entries
		return err
	})
	g.Go(func() error {
		rows, err := loadTable(ctx, dir, TablePrerequisites, false, csvPrereq)
		for _, r := range rows {
			d.Prerequisites = append(d.Prerequisites, r.toEdge())
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return catalog.Data{}, err
	}
	return d, nil
}

func loadTable[T any](ctx context.Context, dir, table string, required bool, fromCSV func(map[string]string) T) ([]T, error) {
	path, ok := FindTable(dir, table)
	if !ok {
		if required {
			return nil, fmt.Errorf("table %s in %s: %w", table, dir, domerrors.ErrNotFound)
		}
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeFile(path, fromCSV)
}

func decodeFile[T any](path string, fromCSV func(map[string]string) T) ([]T, error) {
	format, err := fileFormat(path)
	if err != nil {
		return nil, err
	}
	rc, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	if format == "json" {
		var rows []T
		if err := json.NewDecoder(rc).Decode(&rows); err != nil {
			return nil, domerrors.NewLoadError(path, 0, err)
		}
		return rows, nil
	}

	records, err := readCSV(rc, path)
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0, len(records))
	for _, rec := range records {
		rows = append(rows, fromCSV(rec))
	}
	return rows, nil
}

// loadCurriculum accepts flat plan rows or nested program documents in JSON,
// and flat rows in CSV.
func loadCurriculum(ctx context.Context, dir string) ([]catalog.PlanEntry, error) {
	path, ok := FindTable(dir, TableCurriculum)
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := fileFormat(path)
	if err != nil {
		return nil, err
	}
	if format == "csv" {
		rows, err := decodeFile(path, csvPlan)
		if err != nil {
			return nil, err
		}
		entries := make([]catalog.PlanEntry, 0, len(rows))
		for _, r := range rows {
			entries = append(entries, r.toEntry())
		}
		return entries, nil
	}

	rc, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var raw []json.RawMessage
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return nil, domerrors.NewLoadError(path, 0, err)
	}
	var entries []catalog.PlanEntry
	for i, msg := range raw {
		var probe struct {
			Years json.RawMessage `json:"years"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return nil, domerrors.NewLoadError(path, i+1, err)
		}
		if probe.Years != nil {
			var n nestedPlan
			if err := json.Unmarshal(msg, &n); err != nil {
				return nil, domerrors.NewLoadError(path, i+1, err)
			}
			entries = append(entries, n.flatten()...)
			continue
		}
		var r planRow
		if err := json.Unmarshal(msg, &r); err != nil {
			return nil, domerrors.NewLoadError(path, i+1, err)
		}
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

func fileFormat(path string) (string, error) {
	base := strings.TrimSuffix(strings.ToLower(path), ".zst")
	switch filepath.Ext(base) {
	case ".json":
		return "json", nil
	case ".csv":
		return "csv", nil
	}
	return "", fmt.Errorf("%s: %w", path, domerrors.ErrUnsupportedFormat)
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// openTable opens a table file, decompressing *.zst transparently.
func openTable(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domerrors.NewLoadError(path, 0, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, domerrors.NewLoadError(path, 0, fmt.Errorf("zstd: %w", err))
	}
	return zstdFile{Decoder: dec, f: f}, nil
}

// readCSV returns one map per record keyed by the lower-cased header.
func readCSV(r io.Reader, path string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, domerrors.NewLoadError(path, 1, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var out []map[string]string
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domerrors.NewLoadError(path, row, err)
		}
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				m[h] = strings.TrimSpace(rec[i])
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func csvProgram(m map[string]string) programRow {
	return programRow{ID: m["program_id"], Name: m["program_name"], ShortName: m["short_name"], DepartmentID: m["department_id"]}
}

func csvCourse(m map[string]string) courseRow {
	return courseRow{
		ID:         m["course_id"],
		Code:       m["course_code"],
		Title:      m["course_title"],
		Units:      flexString(m["units"]),
		ProgramID:  m["program_id"],
		Diagnostic: flexBool(parseFlag(m["diagnostic"])),
	}
}

func csvDepartment(m map[string]string) departmentRow {
	return departmentRow{ID: m["department_id"], Name: m["department_name"], Head: m["head_name"], Dean: flexBool(parseFlag(m["dean_flag"]))}
}

func csvPlan(m map[string]string) planRow {
	year, _ := parseInt(m["year_level"])
	term, _ := parseInt(m["semester"])
	return planRow{ProgramID: m["program_id"], Year: flexInt(year), Term: flexInt(term), CourseID: m["course_id"]}
}

func csvPrereq(m map[string]string) prereqRow {
	return prereqRow{CourseID: m["course_id"], PrereqID: m["prereq_course_id"], Type: m["type"]}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
