package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

const (
	// NoEvidenceScore is assigned when retrieval found nothing to check
	// a claim against. It sits below the hallucination threshold but is
	// reported with its own rationale, distinct from contradiction.
	NoEvidenceScore = 0.1

	// NoEvidenceRationale explains an evidence-free evaluation
	NoEvidenceRationale = "no evidence found to verify this claim"
)

// Evaluator compares one claim against its evidence set and produces a
// score, verdict and rationale. Implementations never return an error
// for upstream failures; those degrade to fallback scores. The only
// returned error is context cancellation.
type Evaluator interface {
	// Name returns the strategy name
	Name() string

	// Evaluate scores the claim against the evidence
	Evaluate(ctx context.Context, claim model.Claim, evidence []model.Evidence) (model.ClaimEvaluation, error)
}

// NewEvaluator creates the evaluator selected by strategy name
func NewEvaluator(strategy string, provider llm.Provider) (Evaluator, error) {
	switch strings.ToLower(strategy) {
	case "similarity":
		if !llm.SupportsEmbeddings(provider.Name()) {
			return nil, fmt.Errorf("provider %s does not support embeddings required by the similarity strategy", provider.Name())
		}
		return NewSimilarityEvaluator(provider), nil
	case "generative":
		return NewGenerativeEvaluator(provider), nil
	case "":
		return nil, fmt.Errorf("evaluation strategy is required (supported: similarity, generative)")
	default:
		return nil, fmt.Errorf("unknown evaluation strategy: %s (supported: similarity, generative)", strategy)
	}
}

// noEvidenceEvaluation is the shared result for claims with no evidence
func noEvidenceEvaluation(claim model.Claim) model.ClaimEvaluation {
	return model.ClaimEvaluation{
		Claim:     claim,
		Score:     NoEvidenceScore,
		Verdict:   model.VerdictForScore(NoEvidenceScore),
		Rationale: NoEvidenceRationale,
		Method:    model.MethodNoEvidence,
		Evidence:  []model.Evidence{},
	}
}
