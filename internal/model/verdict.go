package model

// Verdict is the categorical truthfulness label derived from a score
type Verdict string

const (
	VerdictHighlyTruthful      Verdict = "highly_truthful"      // score >= 0.75
	VerdictMostlyTruthful      Verdict = "mostly_truthful"      // 0.55 <= score < 0.75
	VerdictUncertain           Verdict = "uncertain"            // 0.35 <= score < 0.55
	VerdictLikelyHallucination Verdict = "likely_hallucination" // score < 0.35
)

// Verdict thresholds shared by per-claim scoring and aggregation.
const (
	ThresholdHighlyTruthful = 0.75
	ThresholdMostlyTruthful = 0.55
	ThresholdUncertain      = 0.35
)

// VerdictForScore maps a score in [0, 1] to its verdict category.
// The mapping is a pure function of the score.
func VerdictForScore(score float64) Verdict {
	switch {
	case score >= ThresholdHighlyTruthful:
		return VerdictHighlyTruthful
	case score >= ThresholdMostlyTruthful:
		return VerdictMostlyTruthful
	case score >= ThresholdUncertain:
		return VerdictUncertain
	default:
		return VerdictLikelyHallucination
	}
}

// Label returns the display name for the verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictHighlyTruthful:
		return "Highly Truthful"
	case VerdictMostlyTruthful:
		return "Mostly Truthful"
	case VerdictUncertain:
		return "Uncertain"
	case VerdictLikelyHallucination:
		return "Likely Hallucination"
	default:
		return string(v)
	}
}
