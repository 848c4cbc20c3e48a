package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaTables lists the catalog tables in creation order. Referential
// integrity is left to catalog.New, which records gaps as issues instead of
// rejecting rows, so the tables carry no foreign keys.
var schemaTables = []struct {
	name string
	ddl  string
}{
	{"departments", `
	CREATE TABLE IF NOT EXISTS departments (
		seq INTEGER PRIMARY KEY,
		department_id TEXT NOT NULL UNIQUE,
		department_name TEXT NOT NULL,
		head_name TEXT,
		dean INTEGER NOT NULL DEFAULT 0
	);`},
	{"programs", `
	CREATE TABLE IF NOT EXISTS programs (
		seq INTEGER PRIMARY KEY,
		program_id TEXT NOT NULL UNIQUE,
		program_name TEXT NOT NULL,
		short_name TEXT,
		department_id TEXT
	);`},
	{"courses", `
	CREATE TABLE IF NOT EXISTS courses (
		seq INTEGER PRIMARY KEY,
		course_id TEXT NOT NULL UNIQUE,
		course_code TEXT,
		course_title TEXT NOT NULL,
		units_spec TEXT,
		units INTEGER NOT NULL DEFAULT 0,
		program_id TEXT,
		diagnostic INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_courses_code ON courses(course_code);`},
	{"curriculum", `
	CREATE TABLE IF NOT EXISTS curriculum (
		seq INTEGER PRIMARY KEY,
		program_id TEXT NOT NULL,
		year_level INTEGER NOT NULL,
		semester INTEGER NOT NULL,
		course_id TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_curriculum_program ON curriculum(program_id, year_level, semester);`},
	{"prerequisites", `
	CREATE TABLE IF NOT EXISTS prerequisites (
		seq INTEGER PRIMARY KEY,
		course_id TEXT NOT NULL,
		prereq_course_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'course'
	);
	CREATE INDEX IF NOT EXISTS idx_prerequisites_course ON prerequisites(course_id);`},
	{"aliases", `
	CREATE TABLE IF NOT EXISTS aliases (
		seq INTEGER PRIMARY KEY,
		kind TEXT CHECK(kind IN ('program', 'course', 'department')) NOT NULL,
		canonical TEXT NOT NULL,
		variant TEXT NOT NULL
	);`},
	{"abbreviations", `
	CREATE TABLE IF NOT EXISTS abbreviations (
		token TEXT PRIMARY KEY,
		expansion TEXT NOT NULL
	);`},
}

// InitSchema creates all catalog tables and indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schemaTables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}
