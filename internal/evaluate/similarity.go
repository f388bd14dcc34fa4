package evaluate

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

// SimilarityEvaluator scores a claim by embedding it together with each
// evidence item and taking the best cosine similarity: the strongest
// supporting match wins. With fixed embeddings the result is
// deterministic.
type SimilarityEvaluator struct {
	provider llm.Provider
}

// NewSimilarityEvaluator creates an embedding-based evaluator
func NewSimilarityEvaluator(provider llm.Provider) *SimilarityEvaluator {
	return &SimilarityEvaluator{provider: provider}
}

// Name returns the strategy name
func (e *SimilarityEvaluator) Name() string {
	return "similarity"
}

// Evaluate embeds the claim and evidence contents in one call and scores
// the claim by its best match. An embedding failure degrades to the
// no-evidence result rather than aborting the evaluation.
func (e *SimilarityEvaluator) Evaluate(ctx context.Context, claim model.Claim, evidence []model.Evidence) (model.ClaimEvaluation, error) {
	if len(evidence) == 0 {
		return noEvidenceEvaluation(claim), nil
	}

	texts := make([]string, 0, len(evidence)+1)
	texts = append(texts, claim.Text)
	for _, ev := range evidence {
		texts = append(texts, ev.Content)
	}

	vectors, err := e.provider.Embed(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		if ctx.Err() != nil {
			return model.ClaimEvaluation{}, ctx.Err()
		}
		return noEvidenceEvaluation(claim), nil
	}

	claimVec := vectors[0]
	best := 0.0
	bestIdx := 0
	for i, evVec := range vectors[1:] {
		sim := cosineSimilarity(claimVec, evVec)
		if sim > best {
			best = sim
			bestIdx = i
		}
	}

	score := clamp01(best)

	return model.ClaimEvaluation{
		Claim:     claim,
		Score:     score,
		Verdict:   model.VerdictForScore(score),
		Rationale: fmt.Sprintf("best supporting match %q with similarity %.2f", evidence[bestIdx].Source, score),
		Method:    model.MethodSimilarity,
		Evidence:  evidence,
	}, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero-length or mismatched vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
