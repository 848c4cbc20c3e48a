package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/stringutil"
)

func TestDefaultAliases(t *testing.T) {
	t.Parallel()
	a, err := DefaultAliases()
	require.NoError(t, err)

	assert.NotEmpty(t, a.Programs)
	assert.NotEmpty(t, a.Courses)
	assert.NotEmpty(t, a.Departments)
	assert.Equal(t, "introduction", a.Abbreviations["intro"])

	stop := stringutil.DefaultStopwords(stringutil.Default)
	for _, group := range [][]catalog.AliasEntry{a.Programs, a.Courses, a.Departments} {
		for _, e := range group {
			for _, v := range e.Variants {
				assert.False(t, stop.Contains(stringutil.Normalize(v)), "variant %q of %q is a stopword", v, e.Canonical)
			}
		}
	}

	for _, e := range a.Courses {
		if e.Canonical == "Data Structures and Algorithm" {
			assert.Contains(t, e.Variants, "data structures")
			return
		}
	}
	t.Error("data structures alias missing from defaults")
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	t.Run("Empty path uses defaults", func(t *testing.T) {
		t.Parallel()
		a, err := LoadAliases("")
		require.NoError(t, err)
		assert.NotEmpty(t, a.Programs)
	})

	t.Run("Override file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "aliases.yaml")
		require.NoError(t, os.WriteFile(path, []byte("programs:\n  - canonical: BSCS\n    variants: [cs]\nabbreviations:\n  algo: algorithm\n"), 0o644))

		a, err := LoadAliases(path)
		require.NoError(t, err)
		require.Len(t, a.Programs, 1)
		assert.Equal(t, []string{"cs"}, a.Programs[0].Variants)
		assert.Empty(t, a.Courses)
		assert.Equal(t, "algorithm", a.Abbreviations["algo"])
	})

	t.Run("Missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("programs: [canonical: ["), 0o644))
		_, err := LoadAliases(path)
		assert.Error(t, err)
	})
}
