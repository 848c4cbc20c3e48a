package rag

import (
	"testing"
)

func sampleDocs() []Doc {
	return []Doc{
		{ID: "CC 111", Kind: KindCourse, Title: "Introduction to Computing"},
		{ID: "CC 112", Kind: KindCourse, Title: "Computer Programming 1"},
		{ID: "CC 123", Kind: KindCourse, Title: "Intermediate Programming"},
		{ID: "CC 211", Kind: KindCourse, Title: "Data Structures and Algorithm"},
		{ID: "PSY 202", Kind: KindCourse, Title: "Social Psychology"},
		{ID: "COM 101", Kind: KindCourse, Title: "Communication Theory"},
		{ID: "BSCS", Kind: KindProgram, Title: "Bachelor of Science in Computer Science"},
		{ID: "BSPSY", Kind: KindProgram, Title: "Bachelor of Science in Psychology"},
	}
}

func newSampleIndex(t *testing.T) *TitleIndex {
	t.Helper()
	idx, err := NewTitleIndex(sampleDocs())
	if err != nil {
		t.Fatalf("NewTitleIndex() error = %v", err)
	}
	return idx
}

func TestNewTitleIndex_Empty(t *testing.T) {
	t.Parallel()
	idx, err := NewTitleIndex(nil)
	if err != nil {
		t.Fatalf("NewTitleIndex(nil) error = %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	hits, err := idx.Search("programming", 5)
	if err != nil || hits != nil {
		t.Errorf("Search on empty index = %v, %v; want nil, nil", hits, err)
	}

	var nilIdx *TitleIndex
	if nilIdx.Len() != 0 {
		t.Error("nil index should have Len 0")
	}
}

func TestTitleIndex_Search(t *testing.T) {
	t.Parallel()
	idx := newSampleIndex(t)

	tests := []struct {
		name    string
		query   string
		want    string
		mustTop bool
	}{
		{"Stemmed plural", "programs", "CC 112", false},
		{"Single keyword", "algorithms", "CC 211", true},
		{"Taglish filler", "ano po ang theory", "COM 101", true},
		{"Accent folded", "sócial", "PSY 202", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hits, err := idx.Search(tt.query, 3)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(hits) == 0 {
				t.Fatalf("Search(%q) returned no hits", tt.query)
			}
			if tt.mustTop && hits[0].ID != tt.want {
				t.Errorf("Search(%q) top = %s, want %s", tt.query, hits[0].ID, tt.want)
			}
			found := false
			for _, h := range hits {
				if h.ID == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Search(%q) missing %s in %v", tt.query, tt.want, HitIDs(hits))
			}
		})
	}
}

func TestTitleIndex_SearchRanksAndLimit(t *testing.T) {
	t.Parallel()
	idx := newSampleIndex(t)

	hits, err := idx.Search("programming computer", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	for i, h := range hits {
		if h.Rank != i+1 {
			t.Errorf("hit %d rank = %d", i, h.Rank)
		}
		if h.Score <= 0 {
			t.Errorf("hit %d score = %f, want > 0", i, h.Score)
		}
		if i > 0 && h.Score > hits[i-1].Score {
			t.Error("hits not sorted by score")
		}
	}
	if hits[0].Confidence <= hits[1].Confidence {
		t.Error("confidence should fall with rank")
	}
}

func TestTitleIndex_SearchKinds(t *testing.T) {
	t.Parallel()
	idx := newSampleIndex(t)

	hits, err := idx.Search("psychology", 0, KindProgram)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range hits {
		if h.Kind != KindProgram {
			t.Errorf("unexpected kind %s for %s", h.Kind, h.ID)
		}
	}
	if len(hits) == 0 || hits[0].ID != "BSPSY" {
		t.Errorf("program search = %v, want BSPSY first", HitIDs(hits))
	}
}

func TestTitleIndex_SearchNoMatch(t *testing.T) {
	t.Parallel()
	idx := newSampleIndex(t)

	for _, q := range []string{"", "   ", "?!", "the of and", "astrophysics"} {
		hits, err := idx.Search(q, 3)
		if err != nil {
			t.Errorf("Search(%q) error = %v", q, err)
		}
		if len(hits) != 0 {
			t.Errorf("Search(%q) = %v, want none", q, HitIDs(hits))
		}
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want []string
	}{
		{"Programming", []string{"program"}},
		{"Data Structures and Algorithms", []string{"data", "structur", "algorithm"}},
		{"the of", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRankConfidence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rank int
		want float32
	}{
		{0, 0},
		{-1, 0},
		{1, 1 / 1.05},
		{10, 1 / 1.5},
	}
	for _, tt := range tests {
		got := rankConfidence(tt.rank)
		if diff := got - tt.want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("rankConfidence(%d) = %f, want %f", tt.rank, got, tt.want)
		}
	}
}
