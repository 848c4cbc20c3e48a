package stringutil

import (
	"reflect"
	"testing"
)

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Valid digits", "123456", true},
		{"Course number", "111", true},
		{"Empty string", "", false},
		{"Contains letter", "123a456", false},
		{"Contains space", "123 456", false},
		{"Only letters", "abc", false},
		{"Special chars", "123-456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsNumeric(tt.input)
			if got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Only punctuation", "?!...", ""},
		{"Lowercase and punctuation", "Who is the Dean?", "who is the dean"},
		{"Collapse whitespace", "  CS   subjects \t\n", "cs subjects"},
		{"Hyphenated code", "CS-101", "cs 101"},
		{"Non-breaking space", "first\u00a0year", "first year"},
		{"Accents folded", "Filipíno sa Iba't Ibang Disiplina", "filipino sa iba t ibang disiplina"},
		{"Plural kept", "department heads", "department heads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompactCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"CC 111", "CC111"},
		{"cs-101", "CS101"},
		{"BIO 103", "BIO103"},
		{"  ge_mmw ", "GEMMW"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CompactCode(tt.input); got != tt.want {
			t.Errorf("CompactCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHasDigitAndLetter(t *testing.T) {
	t.Parallel()
	if !HasDigit("cs 111") || HasDigit("cs") {
		t.Error("HasDigit mismatch")
	}
	if !HasLetter("cs 111") || HasLetter("111 ?") {
		t.Error("HasLetter mismatch")
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	got := Tokenize(" data  structure ")
	want := []string{"data", "structure"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
}
