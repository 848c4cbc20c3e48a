package stringutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Plural stripped", "Prereqs of Data Structures?", "prereq of data structure"},
		{"Short tokens kept", "CS units", "cs unit"},
		{"Double s kept", "Business Class", "business class"},
		{"Digits kept", "CS101s", "cs101s"},
		{"Known false positive", "analysis", "analysi"},
		{"Three letter token kept", "bus", "bus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"", "glass", "glasss", "Units", "prerequisites", "thesis", "analysis",
		"Mathematics in the Modern World", "CC 111 units?", "ss", "s", "as", "status",
		"Filipíno", "who's the dean's   head??", "bsc", "bscs", "sss s ss",
	}
	normalizers := []Normalizer{Default, {SingularizeMinLen: 1}, {SingularizeMinLen: 3}, {}}

	for _, n := range normalizers {
		for _, in := range inputs {
			once := n.Normalize(in)
			twice := n.Normalize(once)
			if once != twice {
				t.Errorf("min=%d: Normalize(Normalize(%q)) = %q, want %q", n.SingularizeMinLen, in, twice, once)
			}
		}
	}
}

func TestNormalizer_Disabled(t *testing.T) {
	t.Parallel()
	var n Normalizer
	if got := n.Normalize("Units"); got != "units" {
		t.Errorf("zero Normalizer should not singularize, got %q", got)
	}
}

func TestStripStopwords(t *testing.T) {
	t.Parallel()
	stop := DefaultStopwords(Default)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Prereq question", "What are the prereqs of Data Structures?", []string{"data", "structure"}},
		{"Taglish", "ano po ang prereq ng Data Structures", []string{"data", "structure"}},
		{"Units question", "How many units for MMW?", []string{"mmw"}},
		{"Only filler", "what is the course?", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Default.Payload(tt.input, stop)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Payload(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if got := StripStopwords([]string{"a", "b"}, nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("nil set should strip nothing, got %v", got)
	}
}

func TestExpandAbbreviations(t *testing.T) {
	t.Parallel()
	table := map[string]string{
		"math":  "mathematic",
		"intro": "introduction",
		"ge":    "general education",
	}
	got := ExpandAbbreviations([]string{"intro", "to", "math", "ge"}, table)
	want := []string{"introduction", "to", "mathematic", "general", "education"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandAbbreviations() = %v, want %v", got, want)
	}

	same := []string{"x"}
	if got := ExpandAbbreviations(same, nil); !reflect.DeepEqual(got, same) {
		t.Errorf("empty table should be a no-op, got %v", got)
	}
}
