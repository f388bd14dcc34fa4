package model

// ScoringMethod records how a claim's score was produced, so callers can
// tell a normally scored claim from one that went through a fallback path.
type ScoringMethod string

const (
	MethodSimilarity         ScoringMethod = "similarity"          // Embedding cosine similarity
	MethodGenerative         ScoringMethod = "generative"          // LLM verification, parsed normally
	MethodNoEvidence         ScoringMethod = "no_evidence"         // Retrieval returned nothing
	MethodGenerativeFallback ScoringMethod = "generative_fallback" // LLM response unparseable, uncertain default applied
)

// ClaimEvaluation is the result of comparing one claim to its evidence set
type ClaimEvaluation struct {
	Claim     Claim         `json:"claim"`
	Score     float64       `json:"score"`              // In [0, 1], always defined
	Verdict   Verdict       `json:"verdict"`            // Deterministic function of Score
	Rationale string        `json:"rationale"`          // Short explanation of the score
	Method    ScoringMethod `json:"method"`             // How the score was produced
	Evidence  []Evidence    `json:"evidence,omitempty"` // Evidence the score was based on
}

// Fallback reports whether this evaluation was produced by a fallback path
// rather than the configured strategy.
func (e ClaimEvaluation) Fallback() bool {
	return e.Method == MethodNoEvidence || e.Method == MethodGenerativeFallback
}
