package evaluate

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func TestSimilarityEvaluator_BestMatchWins(t *testing.T) {
	provider := &MockProvider{
		embeddings: [][]float32{
			{1, 0},       // claim
			{0.6, 0.8},   // evidence 0: cos 0.6
			{1, 0},       // evidence 1: cos 1.0
			{0, 1},       // evidence 2: cos 0.0
		},
	}
	evaluator := NewSimilarityEvaluator(provider)

	claim := model.Claim{Text: "Beethoven met Mozart in Vienna"}
	evidence := []model.Evidence{
		{Content: "partial match", Source: "Wikipedia: Vienna"},
		{Content: "exact match", Source: "Wikipedia: Beethoven"},
		{Content: "unrelated", Source: "Wikipedia: Cooking"},
	}

	eval, err := evaluator.Evaluate(context.Background(), claim, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if math.Abs(eval.Score-1.0) > 1e-6 {
		t.Errorf("Expected score 1.0, got %f", eval.Score)
	}
	if eval.Verdict != model.VerdictHighlyTruthful {
		t.Errorf("Expected highly_truthful verdict, got %s", eval.Verdict)
	}
	if eval.Method != model.MethodSimilarity {
		t.Errorf("Expected similarity method, got %s", eval.Method)
	}
	if !strings.Contains(eval.Rationale, "Wikipedia: Beethoven") {
		t.Errorf("Expected rationale to name the best source, got %q", eval.Rationale)
	}
	if len(provider.lastTexts) != 4 {
		t.Errorf("Expected claim plus 3 evidence texts embedded, got %d", len(provider.lastTexts))
	}
}

func TestSimilarityEvaluator_Idempotent(t *testing.T) {
	provider := &MockProvider{
		embeddings: [][]float32{{0.3, 0.7, 0.2}, {0.3, 0.7, 0.2}},
	}
	evaluator := NewSimilarityEvaluator(provider)

	claim := model.Claim{Text: "Water is H2O"}
	evidence := []model.Evidence{{Content: "Water is H2O", Source: "Wikipedia: Water"}}

	first, err := evaluator.Evaluate(context.Background(), claim, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := evaluator.Evaluate(context.Background(), claim, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.Score != second.Score {
		t.Errorf("Expected identical scores, got %v and %v", first.Score, second.Score)
	}
	if first.Verdict != second.Verdict {
		t.Errorf("Expected identical verdicts, got %s and %s", first.Verdict, second.Verdict)
	}
}

func TestSimilarityEvaluator_NoEvidence(t *testing.T) {
	evaluator := NewSimilarityEvaluator(&MockProvider{})

	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Method != model.MethodNoEvidence {
		t.Errorf("Expected no_evidence method, got %s", eval.Method)
	}
	if eval.Score >= model.ThresholdUncertain {
		t.Errorf("Expected score below %f, got %f", model.ThresholdUncertain, eval.Score)
	}
	if strings.Contains(strings.ToLower(eval.Rationale), "contradict") {
		t.Errorf("No-evidence rationale must not read as contradiction, got %q", eval.Rationale)
	}
}

func TestSimilarityEvaluator_EmbedFailureDegrades(t *testing.T) {
	provider := &MockProvider{embedErr: errors.New("rate limit")}
	evaluator := NewSimilarityEvaluator(provider)

	evidence := []model.Evidence{{Content: "something", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected degraded result, got error %v", err)
	}

	if eval.Method != model.MethodNoEvidence {
		t.Errorf("Expected no_evidence fallback, got %s", eval.Method)
	}
}

func TestSimilarityEvaluator_ClampsNegativeSimilarity(t *testing.T) {
	provider := &MockProvider{
		embeddings: [][]float32{{1, 0}, {-1, 0}},
	}
	evaluator := NewSimilarityEvaluator(provider)

	evidence := []model.Evidence{{Content: "opposite", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != 0 {
		t.Errorf("Expected clamped score 0, got %f", eval.Score)
	}
	if eval.Verdict != model.VerdictLikelyHallucination {
		t.Errorf("Expected likely_hallucination verdict, got %s", eval.Verdict)
	}
}

func TestSimilarityEvaluator_ContextCancelled(t *testing.T) {
	provider := &MockProvider{embeddings: [][]float32{{1}, {1}}}
	evaluator := NewSimilarityEvaluator(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evidence := []model.Evidence{{Content: "something", Source: "src"}}
	_, err := evaluator.Evaluate(ctx, model.Claim{Text: "claim"}, evidence)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"mismatched lengths", []float32{1, 0}, []float32{1}, 0.0},
		{"empty", nil, nil, 0.0},
		{"scaled", []float32{2, 0}, []float32{5, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("cosineSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	if got := clamp01(-0.5); got != 0 {
		t.Errorf("Expected clamp01(-0.5) = 0, got %f", got)
	}
	if got := clamp01(1.5); got != 1 {
		t.Errorf("Expected clamp01(1.5) = 1, got %f", got)
	}
	if got := clamp01(0.42); got != 0.42 {
		t.Errorf("Expected clamp01(0.42) = 0.42, got %f", got)
	}
}
