package nlu

import "testing"

func TestParseYear(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want int
	}{
		{"1st year cs subjects", 1},
		{"second year psychology", 2},
		{"Third-Year BSCS", 3},
		{"year 4 courses", 4},
		{"yr two subjects", 2},
		{"subjects for freshmen", 1},
		{"senior comm courses", 4},
		{"first sem subjects", 0},
		{"2nd semester", 0},
		{"what do 3rd cs take", 3},
		{"first sem of second year", 2},
		{"year 2024 curriculum", 0},
		{"", 0},
		{"?!", 0},
	}
	for _, tt := range tests {
		if got := ParseYear(tt.text); got != tt.want {
			t.Errorf("ParseYear(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseTerm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want int
	}{
		{"first sem", 1},
		{"1st year 2nd semester", 2},
		{"third trimester", 3},
		{"semester 2", 2},
		{"sem one", 1},
		{"term 3", 3},
		{"summer classes", 3},
		{"midyear", 3},
		{"fourth sem", 0},
		{"second year", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseTerm(tt.text); got != tt.want {
			t.Errorf("ParseTerm(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCodeCandidates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want []string
	}{
		{"CC 111 units?", []string{"CC111"}},
		{"cs-101", []string{"CS101"}},
		{"BIO103 and gec 104", []string{"BIO103", "GEC104"}},
		{"curriculum for year 2024", nil},
		{"units in 2025", nil},
		{"Data Structures", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := CodeCandidates(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("CodeCandidates(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("CodeCandidates(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}

func TestKnownCodes(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"IS101": true, "NSTP1": true, "CC111": true, "PE1": true}
	isKnown := func(code string) bool { return known[code] }

	tests := []struct {
		text string
		want []string
	}{
		{"IS 101", []string{"IS101"}},
		{"is101 units", []string{"IS101"}},
		{"prereq of IS-101", []string{"IS101"}},
		{"NSTP 1 units?", []string{"NSTP1"}},
		{"PE1 and pe 1", []string{"PE1"}},
		{"cc 111 before nstp 1", []string{"CC111", "NSTP1"}},
		{"is it hard?", nil},
		{"year 2024", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := KnownCodes(tt.text, isKnown)
		if len(got) != len(tt.want) {
			t.Errorf("KnownCodes(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("KnownCodes(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
	if got := KnownCodes("IS 101", nil); got != nil {
		t.Errorf("KnownCodes with nil lookup = %v, want nil", got)
	}
}

func TestSimplifyTagalog(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tok  string
		want string
	}{
		{"nagtuturo", "turo"},
		{"magturo", "turo"},
		{"turo", "turo"},
		{"tinuturuan", "tinuturu"},
	}
	for _, tt := range tests {
		if got := simplifyTagalog(tt.tok); got != tt.want {
			t.Errorf("simplifyTagalog(%q) = %q, want %q", tt.tok, got, tt.want)
		}
	}
}
