package model

import "time"

// Report is the aggregate truthfulness evaluation for one input text
type Report struct {
	Text            string    `json:"text"`                       // The text that was evaluated
	Query           string    `json:"query,omitempty"`            // Original question, in query mode
	GeneratedAnswer string    `json:"generated_answer,omitempty"` // Answer the gateway produced for the query
	EvaluatedAt     time.Time `json:"evaluated_at"`

	Extraction ExtractionMeta    `json:"extraction"` // How claims were obtained
	Claims     []ClaimEvaluation `json:"claims"`     // Per-claim results, in extraction order

	Score     float64 `json:"score"`               // Mean of per-claim scores, or the no-claims default
	Percent   float64 `json:"percent"`             // Score scaled to 0-100 for display
	Verdict   Verdict `json:"verdict"`             // Same threshold function as per-claim verdicts
	Rationale string  `json:"rationale,omitempty"` // Set when the no-claims default applies

	Strategy        string        `json:"strategy"`         // Scoring strategy used
	RetrievalMethod string        `json:"retrieval_method"` // Evidence source used
	Elapsed         time.Duration `json:"elapsed_ns,omitempty"`
}

// ExtractionMeta describes how claims were obtained from the input text
type ExtractionMeta struct {
	ClaimCount int    `json:"claim_count"`
	Fallback   bool   `json:"fallback"`         // Whole-text fallback was applied
	Reason     string `json:"reason,omitempty"` // Why the fallback triggered
}

// Defaults applied when extraction yields zero claims. The report still
// carries a defined score and verdict rather than failing.
const (
	NoClaimsScore     = 0.5
	NoClaimsRationale = "no verifiable claims found in the input text"
)

// AggregateScore returns the arithmetic mean of per-claim scores.
// With zero claims it returns NoClaimsScore, the defined neutral default.
func AggregateScore(evals []ClaimEvaluation) float64 {
	if len(evals) == 0 {
		return NoClaimsScore
	}

	var sum float64
	for _, eval := range evals {
		sum += eval.Score
	}
	return sum / float64(len(evals))
}
