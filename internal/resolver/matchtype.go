package resolver

import (
	"fmt"
)

// MatchType says how a course was resolved. The declaration order is the
// order the resolver tries each strategy, with MatchNone as the zero value.
type MatchType int

const (
	MatchNone MatchType = iota
	MatchCode
	MatchAlias
	MatchExactTitle
	MatchExactTitleSubset
	MatchHighConfidenceFuzzy
	MatchFuzzyCode
)

var matchTypeNames = [...]string{
	MatchNone:                "none",
	MatchCode:                "code",
	MatchAlias:               "alias",
	MatchExactTitle:          "exact_title",
	MatchExactTitleSubset:    "exact_title_subset",
	MatchHighConfidenceFuzzy: "high_confidence_fuzzy",
	MatchFuzzyCode:           "fuzzy_code",
}

// MatchTypes lists every match type.
func MatchTypes() []MatchType {
	out := make([]MatchType, len(matchTypeNames))
	for i := range matchTypeNames {
		out[i] = MatchType(i)
	}
	return out
}

func (m MatchType) String() string {
	if m < 0 || int(m) >= len(matchTypeNames) {
		return fmt.Sprintf("MatchType(%d)", int(m))
	}
	return matchTypeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m MatchType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Confident reports whether a caller may answer without asking the user.
func (m MatchType) Confident() bool {
	switch m {
	case MatchCode, MatchAlias, MatchExactTitle, MatchExactTitleSubset, MatchHighConfidenceFuzzy:
		return true
	}
	return false
}

// NeedsConfirmation reports whether the caller must confirm the match first.
func (m MatchType) NeedsConfirmation() bool {
	return m == MatchFuzzyCode
}

// ProgramVia says how a program was resolved.
type ProgramVia string

const (
	ViaAbbreviation ProgramVia = "abbreviation"
	ViaExactName    ProgramVia = "exact_name"
	ViaSubstring    ProgramVia = "substring"
	ViaFuzzy        ProgramVia = "fuzzy"
	ViaNone         ProgramVia = "none"
)
