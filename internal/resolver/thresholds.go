package resolver

// Thresholds are the tunable cutoffs of the resolver. Scores are 0-100.
type Thresholds struct {
	HighConfidence      int     // lowest fuzzy title score answered without asking
	FuzzyCode           int     // lowest code similarity offered as "did you mean"
	Suggest             int     // lowest score shown in suggestion lists
	AmbiguityMargin     int     // a rival closer than this makes a fuzzy win ambiguous
	SubsetTitleCoverage float64 // share of title tokens a subset query must cover
	SuggestionLimit     int
	MinFuzzyQueryLen    int // shorter payloads skip fuzzy title scoring
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighConfidence:      88,
		FuzzyCode:           65,
		Suggest:             60,
		AmbiguityMargin:     15,
		SubsetTitleCoverage: 0.8,
		SuggestionLimit:     3,
		MinFuzzyQueryLen:    3,
	}
}

// withDefaults fills unset fields.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.HighConfidence <= 0 {
		t.HighConfidence = d.HighConfidence
	}
	if t.FuzzyCode <= 0 {
		t.FuzzyCode = d.FuzzyCode
	}
	if t.Suggest <= 0 {
		t.Suggest = d.Suggest
	}
	if t.AmbiguityMargin <= 0 {
		t.AmbiguityMargin = d.AmbiguityMargin
	}
	if t.SubsetTitleCoverage <= 0 || t.SubsetTitleCoverage > 1 {
		t.SubsetTitleCoverage = d.SubsetTitleCoverage
	}
	if t.SuggestionLimit <= 0 {
		t.SuggestionLimit = d.SuggestionLimit
	}
	if t.MinFuzzyQueryLen <= 0 {
		t.MinFuzzyQueryLen = d.MinFuzzyQueryLen
	}
	return t
}
