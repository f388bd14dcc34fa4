package model

import "testing"

func TestVerdictForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Verdict
	}{
		{"high score", 0.9, VerdictHighlyTruthful},
		{"exactly highly truthful threshold", 0.75, VerdictHighlyTruthful},
		{"mostly truthful", 0.6, VerdictMostlyTruthful},
		{"exactly mostly truthful threshold", 0.55, VerdictMostlyTruthful},
		{"uncertain", 0.4, VerdictUncertain},
		{"exactly uncertain threshold", 0.35, VerdictUncertain},
		{"just below uncertain threshold", 0.349, VerdictLikelyHallucination},
		{"low score", 0.1, VerdictLikelyHallucination},
		{"zero", 0, VerdictLikelyHallucination},
		{"perfect", 1, VerdictHighlyTruthful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerdictForScore(tt.score)
			if got != tt.want {
				t.Errorf("Expected verdict %s for score %v, got %s", tt.want, tt.score, got)
			}
		})
	}
}

func TestVerdictLabel(t *testing.T) {
	tests := []struct {
		verdict Verdict
		want    string
	}{
		{VerdictHighlyTruthful, "Highly Truthful"},
		{VerdictMostlyTruthful, "Mostly Truthful"},
		{VerdictUncertain, "Uncertain"},
		{VerdictLikelyHallucination, "Likely Hallucination"},
		{Verdict("custom"), "custom"},
	}

	for _, tt := range tests {
		if got := tt.verdict.Label(); got != tt.want {
			t.Errorf("Expected label %q for %s, got %q", tt.want, tt.verdict, got)
		}
	}
}
