package evaluate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func TestGenerativeEvaluator_Supported(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": true, "confidence": 0.85, "reasoning": "The evidence confirms the meeting.", "contradiction": false}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	claim := model.Claim{Text: "Beethoven met Mozart in Vienna"}
	evidence := []model.Evidence{{Content: "Beethoven traveled to Vienna to meet Mozart.", Source: "Wikipedia: Beethoven"}}

	eval, err := evaluator.Evaluate(context.Background(), claim, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != 0.85 {
		t.Errorf("Expected score 0.85, got %f", eval.Score)
	}
	if eval.Verdict != model.VerdictHighlyTruthful {
		t.Errorf("Expected highly_truthful verdict, got %s", eval.Verdict)
	}
	if eval.Method != model.MethodGenerative {
		t.Errorf("Expected generative method, got %s", eval.Method)
	}
	if eval.Rationale != "The evidence confirms the meeting." {
		t.Errorf("Unexpected rationale: %q", eval.Rationale)
	}
}

func TestGenerativeEvaluator_Contradicted(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": false, "confidence": 0.9, "reasoning": "Mozart died in 1791.", "contradiction": true}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "Mozart died in 1791.", Source: "Wikipedia: Mozart"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "Mozart composed in 1800"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != 0.0 {
		t.Errorf("Expected score 0.0 for contradiction, got %f", eval.Score)
	}
	if eval.Verdict != model.VerdictLikelyHallucination {
		t.Errorf("Expected likely_hallucination verdict, got %s", eval.Verdict)
	}
}

func TestGenerativeEvaluator_Unsupported(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": false, "confidence": 0.7, "reasoning": "Evidence is unrelated.", "contradiction": false}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "Unrelated text.", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != unsupportedScore {
		t.Errorf("Expected score %f, got %f", unsupportedScore, eval.Score)
	}
	if eval.Method != model.MethodGenerative {
		t.Errorf("Expected generative method for parsed response, got %s", eval.Method)
	}
}

func TestGenerativeEvaluator_FencedResponse(t *testing.T) {
	provider := &MockProvider{
		response: "```json\n{\"supported\": true, \"confidence\": 0.8, \"reasoning\": \"ok\", \"contradiction\": false}\n```",
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Method != model.MethodGenerative {
		t.Errorf("Expected fenced response to parse, got method %s", eval.Method)
	}
	if eval.Score != 0.8 {
		t.Errorf("Expected score 0.8, got %f", eval.Score)
	}
}

func TestGenerativeEvaluator_UnparseableResponse(t *testing.T) {
	provider := &MockProvider{
		response: "I believe this claim is probably true.",
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected fallback result, got error %v", err)
	}

	if eval.Score != UncertainFallbackScore {
		t.Errorf("Expected fallback score %f, got %f", UncertainFallbackScore, eval.Score)
	}
	if eval.Verdict != model.VerdictUncertain {
		t.Errorf("Expected uncertain verdict, got %s", eval.Verdict)
	}
	if eval.Method != model.MethodGenerativeFallback {
		t.Errorf("Expected generative_fallback method, got %s", eval.Method)
	}
	if !strings.Contains(eval.Rationale, "could not be parsed") {
		t.Errorf("Expected rationale to explain the parse failure, got %q", eval.Rationale)
	}
	if !eval.Fallback() {
		t.Error("Expected fallback evaluation to report as fallback")
	}
}

func TestGenerativeEvaluator_ProviderFailureDegrades(t *testing.T) {
	provider := &MockProvider{generateErr: errors.New("service unavailable")}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected fallback result, got error %v", err)
	}

	if eval.Method != model.MethodGenerativeFallback {
		t.Errorf("Expected generative_fallback method, got %s", eval.Method)
	}
	if !strings.Contains(eval.Rationale, "verification request failed") {
		t.Errorf("Expected rationale to name the failure, got %q", eval.Rationale)
	}
}

func TestGenerativeEvaluator_NoEvidence(t *testing.T) {
	evaluator := NewGenerativeEvaluator(&MockProvider{})

	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Method != model.MethodNoEvidence {
		t.Errorf("Expected no_evidence method, got %s", eval.Method)
	}
	if eval.Rationale != NoEvidenceRationale {
		t.Errorf("Unexpected rationale: %q", eval.Rationale)
	}
}

func TestGenerativeEvaluator_MissingConfidenceDefaults(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": true, "reasoning": "probably", "contradiction": false}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != 0.5 {
		t.Errorf("Expected neutral default confidence 0.5, got %f", eval.Score)
	}
}

func TestGenerativeEvaluator_ClampsConfidence(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": true, "confidence": 1.7, "reasoning": "over-eager", "contradiction": false}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	eval, err := evaluator.Evaluate(context.Background(), model.Claim{Text: "claim"}, evidence)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if eval.Score != 1.0 {
		t.Errorf("Expected clamped score 1.0, got %f", eval.Score)
	}
}

func TestGenerativeEvaluator_PromptUsesTopEvidence(t *testing.T) {
	provider := &MockProvider{
		response: `{"supported": true, "confidence": 0.9, "reasoning": "ok", "contradiction": false}`,
	}
	evaluator := NewGenerativeEvaluator(provider)

	claim := model.Claim{Text: "The Danube flows through Vienna"}
	evidence := []model.Evidence{
		{Content: "First snippet.", Source: "src-1"},
		{Content: "Second snippet.", Source: "src-2"},
		{Content: "Third snippet.", Source: "src-3"},
		{Content: "Fourth snippet.", Source: "src-4"},
	}

	if _, err := evaluator.Evaluate(context.Background(), claim, evidence); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prompt := provider.lastPrompt
	if !strings.Contains(prompt, claim.Text) {
		t.Error("Expected prompt to contain the claim text")
	}
	for _, source := range []string{"src-1", "src-2", "src-3"} {
		if !strings.Contains(prompt, source) {
			t.Errorf("Expected prompt to contain %s", source)
		}
	}
	if strings.Contains(prompt, "src-4") {
		t.Error("Expected prompt to stop at the top 3 evidence items")
	}
}

func TestGenerativeEvaluator_ContextCancelled(t *testing.T) {
	provider := &MockProvider{response: `{"supported": true, "confidence": 0.9}`}
	evaluator := NewGenerativeEvaluator(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evidence := []model.Evidence{{Content: "text", Source: "src"}}
	_, err := evaluator.Evaluate(ctx, model.Claim{Text: "claim"}, evidence)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestFormatEvidence(t *testing.T) {
	evidence := []model.Evidence{
		{Content: "Content A.", Source: "Source A"},
		{Content: "Content B.", Source: "Source B"},
	}

	got := formatEvidence(evidence)
	expected := "Source: Source A\nContent A.\n\nSource: Source B\nContent B."
	if got != expected {
		t.Errorf("formatEvidence = %q, want %q", got, expected)
	}
}
