package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/garyellow/casmate/internal/catalog"
)

// SaveData replaces the stored catalog with d in one transaction. Row order
// is preserved through the seq column so a reload yields identical plan and
// prerequisite ordering.
func (db *DB) SaveData(ctx context.Context, d catalog.Data) error {
	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := len(schemaTables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+schemaTables[i].name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", schemaTables[i].name, err)
		}
	}

	if err := insertRows(ctx, tx,
		`INSERT INTO departments (department_id, department_name, head_name, dean) VALUES (?, ?, ?, ?)`,
		d.Departments, func(v catalog.Department) []any {
			return []any{v.ID, v.Name, nullString(v.Head), boolInt(v.Dean)}
		}); err != nil {
		return fmt.Errorf("failed to save departments: %w", err)
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO programs (program_id, program_name, short_name, department_id) VALUES (?, ?, ?, ?)`,
		d.Programs, func(v catalog.Program) []any {
			return []any{v.ID, v.Name, nullString(v.ShortName), nullString(v.DepartmentID)}
		}); err != nil {
		return fmt.Errorf("failed to save programs: %w", err)
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO courses (course_id, course_code, course_title, units_spec, units, program_id, diagnostic) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Courses, func(v catalog.Course) []any {
			id := v.ID
			if id == "" {
				id = v.Code
			}
			return []any{id, nullString(v.Code), v.Title, nullString(v.UnitsSpec), v.Units, nullString(v.ProgramID), boolInt(v.Diagnostic)}
		}); err != nil {
		return fmt.Errorf("failed to save courses: %w", err)
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO curriculum (program_id, year_level, semester, course_id) VALUES (?, ?, ?, ?)`,
		d.Plan, func(v catalog.PlanEntry) []any {
			return []any{v.ProgramID, v.Year, v.Term, v.CourseID}
		}); err != nil {
		return fmt.Errorf("failed to save curriculum: %w", err)
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO prerequisites (course_id, prereq_course_id, type) VALUES (?, ?, ?)`,
		d.Prerequisites, func(v catalog.PrereqEdge) []any {
			typ := v.Type
			if typ == "" {
				typ = "course"
			}
			return []any{v.CourseID, v.PrereqID, typ}
		}); err != nil {
		return fmt.Errorf("failed to save prerequisites: %w", err)
	}

	type aliasRow struct{ kind, canonical, variant string }
	var aliases []aliasRow
	for kind, entries := range map[string][]catalog.AliasEntry{
		"program":    d.Aliases.Programs,
		"course":     d.Aliases.Courses,
		"department": d.Aliases.Departments,
	} {
		for _, e := range entries {
			for _, v := range e.Variants {
				aliases = append(aliases, aliasRow{kind, e.Canonical, v})
			}
		}
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO aliases (kind, canonical, variant) VALUES (?, ?, ?)`,
		aliases, func(v aliasRow) []any { return []any{v.kind, v.canonical, v.variant} }); err != nil {
		return fmt.Errorf("failed to save aliases: %w", err)
	}

	abbrevs := make([][2]string, 0, len(d.Aliases.Abbreviations))
	for k, v := range d.Aliases.Abbreviations {
		abbrevs = append(abbrevs, [2]string{k, v})
	}
	if err := insertRows(ctx, tx,
		`INSERT INTO abbreviations (token, expansion) VALUES (?, ?)`,
		abbrevs, func(v [2]string) []any { return []any{v[0], v[1]} }); err != nil {
		return fmt.Errorf("failed to save abbreviations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	slog.DebugContext(ctx, "catalog saved",
		"path", db.path,
		"courses", len(d.Courses),
		"plan", len(d.Plan),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) []any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return err
		}
	}
	return nil
}

// LoadData reads the stored catalog back in insertion order.
func (db *DB) LoadData(ctx context.Context) (catalog.Data, error) {
	var d catalog.Data
	var err error

	d.Departments, err = queryRows(ctx, db.conn,
		`SELECT department_id, department_name, head_name, dean FROM departments ORDER BY seq`,
		func(rows *sql.Rows) (catalog.Department, error) {
			var v catalog.Department
			var head sql.NullString
			err := rows.Scan(&v.ID, &v.Name, &head, &v.Dean)
			v.Head = head.String
			return v, err
		})
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load departments: %w", err)
	}

	d.Programs, err = queryRows(ctx, db.conn,
		`SELECT program_id, program_name, short_name, department_id FROM programs ORDER BY seq`,
		func(rows *sql.Rows) (catalog.Program, error) {
			var v catalog.Program
			var short, dept sql.NullString
			err := rows.Scan(&v.ID, &v.Name, &short, &dept)
			v.ShortName, v.DepartmentID = short.String, dept.String
			return v, err
		})
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load programs: %w", err)
	}

	d.Courses, err = queryRows(ctx, db.conn,
		`SELECT course_id, course_code, course_title, units_spec, units, program_id, diagnostic FROM courses ORDER BY seq`,
		func(rows *sql.Rows) (catalog.Course, error) {
			var v catalog.Course
			var code, spec, program sql.NullString
			err := rows.Scan(&v.ID, &code, &v.Title, &spec, &v.Units, &program, &v.Diagnostic)
			v.Code, v.UnitsSpec, v.ProgramID = code.String, spec.String, program.String
			return v, err
		})
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load courses: %w", err)
	}

	d.Plan, err = queryRows(ctx, db.conn,
		`SELECT program_id, year_level, semester, course_id FROM curriculum ORDER BY seq`,
		func(rows *sql.Rows) (catalog.PlanEntry, error) {
			var v catalog.PlanEntry
			err := rows.Scan(&v.ProgramID, &v.Year, &v.Term, &v.CourseID)
			return v, err
		})
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load curriculum: %w", err)
	}

	d.Prerequisites, err = queryRows(ctx, db.conn,
		`SELECT course_id, prereq_course_id, type FROM prerequisites ORDER BY seq`,
		func(rows *sql.Rows) (catalog.PrereqEdge, error) {
			var v catalog.PrereqEdge
			err := rows.Scan(&v.CourseID, &v.PrereqID, &v.Type)
			return v, err
		})
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load prerequisites: %w", err)
	}

	if d.Aliases, err = db.loadAliases(ctx); err != nil {
		return catalog.Data{}, err
	}
	return d, nil
}

func (db *DB) loadAliases(ctx context.Context) (catalog.Aliases, error) {
	type aliasRow struct{ kind, canonical, variant string }
	rows, err := queryRows(ctx, db.conn,
		`SELECT kind, canonical, variant FROM aliases ORDER BY seq`,
		func(rows *sql.Rows) (aliasRow, error) {
			var v aliasRow
			err := rows.Scan(&v.kind, &v.canonical, &v.variant)
			return v, err
		})
	if err != nil {
		return catalog.Aliases{}, fmt.Errorf("failed to load aliases: %w", err)
	}

	var a catalog.Aliases
	group := func(entries []catalog.AliasEntry, canonical, variant string) []catalog.AliasEntry {
		if n := len(entries); n > 0 && entries[n-1].Canonical == canonical {
			entries[n-1].Variants = append(entries[n-1].Variants, variant)
			return entries
		}
		return append(entries, catalog.AliasEntry{Canonical: canonical, Variants: []string{variant}})
	}
	for _, r := range rows {
		switch r.kind {
		case "program":
			a.Programs = group(a.Programs, r.canonical, r.variant)
		case "course":
			a.Courses = group(a.Courses, r.canonical, r.variant)
		case "department":
			a.Departments = group(a.Departments, r.canonical, r.variant)
		}
	}

	pairs, err := queryRows(ctx, db.conn,
		`SELECT token, expansion FROM abbreviations`,
		func(rows *sql.Rows) ([2]string, error) {
			var v [2]string
			err := rows.Scan(&v[0], &v[1])
			return v, err
		})
	if err != nil {
		return catalog.Aliases{}, fmt.Errorf("failed to load abbreviations: %w", err)
	}
	a.Abbreviations = make(map[string]string, len(pairs))
	for _, p := range pairs {
		a.Abbreviations[p[0]] = p[1]
	}
	return a, nil
}

func queryRows[T any](ctx context.Context, conn *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountRows returns the row count of every catalog table.
func (db *DB) CountRows(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(schemaTables))
	for _, t := range schemaTables {
		var n int
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.name, err)
		}
		counts[t.name] = n
	}
	return counts, nil
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
