package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/casmate/internal/catalog"
	domerrors "github.com/garyellow/casmate/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeZstd(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
}

func TestLoadDir_JSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "programs.json", `[
		{"program_id": "BSCS", "program_name": "Bachelor of Science in Computer Science", "short_name": "BSCS", "department_id": "DCS"}
	]`)
	writeFile(t, dir, "courses.json", `[
		{"course_id": "CC111", "course_code": "CC 111", "course_title": "Introduction to Computing", "units": "2/1"},
		{"course_code": "CC 112", "course_title": "Computer Programming 1", "units": 3},
		{"course_id": "MATHREV", "course_title": "Math Review", "units": null, "diagnostic": "Y"}
	]`)
	writeFile(t, dir, "departments.json", `[
		{"department_id": "CAS", "department_name": "College of Arts and Sciences", "head_name": "Dr. Santos", "dean_flag": "Y"},
		{"department_id": "DCS", "department_name": "Department of Computer Science", "head_name": null, "dean_flag": "N"}
	]`)
	writeFile(t, dir, "curriculum.json", `[
		{"program_id": "BSCS", "years": [
			{"year_level": 1, "terms": [
				{"semester": 1, "courses": ["CC111", "MATHREV"]},
				{"semester": "2", "courses": ["CC 112"]}
			]}
		]},
		{"program_id": "BSCS", "year_level": "2", "semester": 1, "course_id": "CC 112"}
	]`)
	writeFile(t, dir, "prerequisites.json", `[
		{"course_id": "CC 112", "prereq_course_id": "CC111", "type": "course"}
	]`)

	d, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, d.Courses, 3)
	assert.Equal(t, "2/1", d.Courses[0].UnitsSpec)
	assert.Equal(t, "3", d.Courses[1].UnitsSpec)
	assert.True(t, d.Courses[2].Diagnostic)

	require.Len(t, d.Departments, 2)
	assert.True(t, d.Departments[0].Dean)
	assert.False(t, d.Departments[1].Dean)
	assert.Empty(t, d.Departments[1].Head)

	assert.Equal(t, []catalog.PlanEntry{
		{ProgramID: "BSCS", Year: 1, Term: 1, CourseID: "CC111"},
		{ProgramID: "BSCS", Year: 1, Term: 1, CourseID: "MATHREV"},
		{ProgramID: "BSCS", Year: 1, Term: 2, CourseID: "CC 112"},
		{ProgramID: "BSCS", Year: 2, Term: 1, CourseID: "CC 112"},
	}, d.Plan)
	assert.Len(t, d.Prerequisites, 1)

	c, err := catalog.New(d)
	require.NoError(t, err)
	assert.Equal(t, 6, c.UnitsFor("BSCS", 1).Total, "composite CC 111 plus CC 112, review excluded")
}

func TestLoadDir_CSVAndZstd(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "programs.csv", "\ufeffprogram_id,program_name,short_name,department_id\nBSPSY,Bachelor of Science in Psychology,BS Psych,DPSY\n")
	writeZstd(t, dir, "courses.csv.zst", "course_id,course_code,course_title,units,program_id,diagnostic\n"+
		",PSY 101,Introduction to Psychology,3,BSPSY,\n"+
		",PSY 202,\"Social Psychology\",\"2/1\",BSPSY,N\n")
	writeFile(t, dir, "curriculum.csv", "program_id,year_level,semester,course_id\nBSPSY,1,1,PSY 101\nBSPSY,2,1,PSY 202\n")
	writeFile(t, dir, "departments.csv", "department_id,department_name,head_name,dean_flag\nDPSY,Department of Psychology,Dr. Cruz,N\n")

	d, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, d.Programs, 1)
	assert.Equal(t, "BSPSY", d.Programs[0].ID, "BOM stripped from header")
	require.Len(t, d.Courses, 2)
	assert.Equal(t, "Social Psychology", d.Courses[1].Title)
	assert.Equal(t, "2/1", d.Courses[1].UnitsSpec)
	assert.Equal(t, 2, d.Plan[1].Year)
	assert.Empty(t, d.Prerequisites, "optional table missing")
}

func TestLoadDir_Errors(t *testing.T) {
	t.Parallel()

	t.Run("Missing required table", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "programs.json", `[]`)
		_, err := LoadDir(context.Background(), dir)
		require.Error(t, err)
		assert.True(t, domerrors.IsNotFound(err))
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "programs.json", `[{"program_id": `)
		writeFile(t, dir, "courses.json", `[]`)
		_, err := LoadDir(context.Background(), dir)
		var loadErr *domerrors.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, filepath.Join(dir, "programs.json"), loadErr.Path)
	})

	t.Run("Canceled context", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "programs.json", `[]`)
		writeFile(t, dir, "courses.json", `[]`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := LoadDir(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"data/courses.json", "json", false},
		{"data/courses.JSON.zst", "json", false},
		{"data/courses.csv", "csv", false},
		{"data/courses.csv.zst", "csv", false},
		{"data/courses.xml", "", true},
	}
	for _, tt := range tests {
		got, err := fileFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("fileFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !domerrors.IsUnsupportedFormat(err) {
			t.Errorf("fileFormat(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("fileFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"Y", "y", "yes", "TRUE", "1", " t "} {
		if !parseFlag(s) {
			t.Errorf("parseFlag(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "N", "no", "0", "false", "maybe"} {
		if parseFlag(s) {
			t.Errorf("parseFlag(%q) = true, want false", s)
		}
	}
}

func TestSampleDataDir(t *testing.T) {
	d, err := FileSource{Dir: filepath.Join("..", "..", "data")}.Load(context.Background())
	require.NoError(t, err)

	c, err := catalog.New(d)
	require.NoError(t, err)
	assert.Empty(t, c.Issues(), "sample data should load without integrity issues")

	bscs := c.UnitsFor("BSCS", 1)
	assert.Equal(t, 21, bscs.Total)
	assert.Equal(t, map[int]int{1: 12, 2: 9}, bscs.ByTerm)
	assert.True(t, bscs.DiagnosticExcluded)

	_, ok := c.Dean()
	assert.True(t, ok)
}
