package fuzzy

import "testing"

func TestRatio(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"Identical", "data structure", "data structure", 100},
		{"Either empty", "", "data", 0},
		{"Both empty", "", "", 0},
		{"One substitution", "CS111", "CC111", 80},
		{"Disjoint", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()
	if got := PartialRatio("psychology", "social psychology"); got != 100 {
		t.Errorf("PartialRatio substring = %d, want 100", got)
	}
	if got := PartialRatio("social psychology", "psychology"); got != 100 {
		t.Errorf("PartialRatio should be symmetric, got %d", got)
	}
	if got := PartialRatio("", "psychology"); got != 0 {
		t.Errorf("PartialRatio empty = %d, want 0", got)
	}
}

func TestTokenRatios(t *testing.T) {
	t.Parallel()
	if got := TokenSortRatio("world modern", "modern world"); got != 100 {
		t.Errorf("TokenSortRatio reordered = %d, want 100", got)
	}
	if got := TokenSetRatio("data structure", "data structure algorithm"); got != 100 {
		t.Errorf("TokenSetRatio subset = %d, want 100", got)
	}
	if got := TokenSetRatio("", "data"); got != 0 {
		t.Errorf("TokenSetRatio empty = %d, want 0", got)
	}
}

func TestWRatio(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		a, b    string
		wantMin int
		wantMax int
	}{
		{"Exact", "purposive communication", "purposive communication", 100, 100},
		{"Partial title", "psychology", "introduction psychology", 90, 90},
		{"Reordered", "modern world mathematic", "mathematic modern world", 95, 95},
		{"Prefix-only overlap", "community", "communication theory", 0, 87},
		{"Whitespace only", "   ", "anything", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WRatio(tt.a, tt.b)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("WRatio(%q, %q) = %d, want in [%d, %d]", tt.a, tt.b, got, tt.wantMin, tt.wantMax)
			}
			if sym := WRatio(tt.b, tt.a); sym != got {
				t.Errorf("WRatio not symmetric: %d vs %d", got, sym)
			}
		})
	}
}
