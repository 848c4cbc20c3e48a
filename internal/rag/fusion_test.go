package rag

import (
	"testing"
)

func TestFuseRRF(t *testing.T) {
	t.Parallel()
	keyword := Ranking{IDs: []string{"course1", "course2", "course3"}, Weight: DefaultKeywordWeight}
	fuzzy := Ranking{IDs: []string{"course2", "course4", "course1"}, Weight: 1 - DefaultKeywordWeight}

	results := FuseRRF([]Ranking{keyword, fuzzy}, 10)
	if len(results) != 4 {
		t.Fatalf("FuseRRF() returned %d results, want 4", len(results))
	}

	// course2 ranks high in both lists
	if results[0].ID != "course2" {
		t.Errorf("top result = %s, want course2", results[0].ID)
	}
	if results[0].Ranks[0] != 2 || results[0].Ranks[1] != 1 {
		t.Errorf("course2 ranks = %v, want [2 1]", results[0].Ranks)
	}
	top := map[string]bool{}
	for _, r := range results[:3] {
		top[r.ID] = true
	}
	if !top["course1"] {
		t.Error("course1 appears in both lists and should be in the top 3")
	}
}

func TestFuseRRF_SingleRanking(t *testing.T) {
	t.Parallel()
	results := FuseRRF([]Ranking{{IDs: []string{"a", "b", "c"}, Weight: 1}}, 0)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].ID != want {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ID, want)
		}
	}
	want := 1.0 / float64(RRFConstant+1)
	if results[0].Score != want {
		t.Errorf("score = %f, want %f", results[0].Score, want)
	}
}

func TestFuseRRF_Limits(t *testing.T) {
	t.Parallel()
	if got := FuseRRF(nil, 5); len(got) != 0 {
		t.Errorf("FuseRRF(nil) = %v", got)
	}

	results := FuseRRF([]Ranking{{IDs: []string{"a", "b", "c"}, Weight: 1}}, 2)
	if len(results) != 2 {
		t.Errorf("topN=2 returned %d", len(results))
	}

	// out-of-range weights are clamped
	results = FuseRRF([]Ranking{{IDs: []string{"a"}, Weight: -3}, {IDs: []string{"b"}, Weight: 7}}, 0)
	if results[0].ID != "b" || results[1].Score != 0 {
		t.Errorf("clamped weights gave %+v", results)
	}
}

func TestFuseRRF_DuplicateIDsCountOnce(t *testing.T) {
	t.Parallel()
	results := FuseRRF([]Ranking{{IDs: []string{"a", "a", "b"}, Weight: 1}}, 0)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Ranks[0] != 1 {
		t.Errorf("a keeps its best rank, got %d", results[0].Ranks[0])
	}
	if want := 1.0 / float64(RRFConstant+1); results[0].Score != want {
		t.Errorf("duplicate counted twice: %f", results[0].Score)
	}
}
