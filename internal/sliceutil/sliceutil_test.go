package sliceutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Program string
	Year    int
	Course  string
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   []row
		key  func(row) string
		want []row
	}{
		{
			name: "empty",
			in:   nil,
			key:  func(r row) string { return r.Course },
			want: nil,
		},
		{
			name: "first occurrence wins",
			in: []row{
				{"BSCS", 1, "CC 111"},
				{"BSCS", 2, "CC 123"},
				{"BSIT", 1, "CC 111"},
			},
			key: func(r row) string { return r.Course },
			want: []row{
				{"BSCS", 1, "CC 111"},
				{"BSCS", 2, "CC 123"},
			},
		},
		{
			name: "composite key",
			in: []row{
				{"BSCS", 1, "CC 111"},
				{"BSIT", 1, "CC 111"},
				{"BSCS", 1, "CC 111"},
			},
			key: func(r row) string { return r.Program + "/" + r.Course },
			want: []row{
				{"BSCS", 1, "CC 111"},
				{"BSIT", 1, "CC 111"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Deduplicate(tt.in, tt.key))
		})
	}
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := []row{{"A", 1, "x"}, {"A", 1, "x"}, {"B", 2, "y"}}
	before := append([]row(nil), in...)
	_ = Deduplicate(in, func(r row) string { return r.Course })
	assert.Equal(t, before, in)
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()
	plan := []row{{"BSPSY", 3, "PSY 305"}, {"BSPSY", 1, "PSY 101"}, {"BSPSY", 2, "PSY 202"}, {"BSPSY", 1, "GEC 104"}}

	assert.Equal(t, []int{1, 2, 3}, SortedUnique(plan, func(r row) int { return r.Year }))
	assert.Equal(t, []string{"GEC 104", "PSY 101", "PSY 202", "PSY 305"}, SortedUnique(plan, func(r row) string { return r.Course }))
	assert.Nil(t, SortedUnique([]row{}, func(r row) int { return r.Year }))
}
