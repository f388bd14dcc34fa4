package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
)

const verificationPrompt = `Evaluate whether the following claim is supported by the provided evidence.

Claim: %s

Evidence:
%s

Respond with a JSON object containing:
- "supported": true/false (is the claim supported by evidence?)
- "confidence": 0.0-1.0 (how confident are you?)
- "reasoning": brief explanation
- "contradiction": true/false (does evidence contradict the claim?)

Return ONLY the JSON object, no other text.`

const verificationSystemPrompt = "You are a fact-checking system. Be precise and objective."

const (
	// maxEvidenceInPrompt bounds how many evidence items go into the
	// verification prompt
	maxEvidenceInPrompt = 3

	// UncertainFallbackScore is applied when the verification response
	// cannot be parsed. It sits inside the uncertain verdict band.
	UncertainFallbackScore = 0.4

	// unsupportedScore is applied when the model finds the claim neither
	// supported nor contradicted by the evidence
	unsupportedScore = 0.3
)

// GenerativeEvaluator scores a claim by asking a language model whether
// the evidence supports or contradicts it.
type GenerativeEvaluator struct {
	provider llm.Provider
}

// NewGenerativeEvaluator creates an LLM-verification evaluator
func NewGenerativeEvaluator(provider llm.Provider) *GenerativeEvaluator {
	return &GenerativeEvaluator{provider: provider}
}

// Name returns the strategy name
func (e *GenerativeEvaluator) Name() string {
	return "generative"
}

// verificationResult mirrors the JSON object the model is asked to emit.
// Confidence is a pointer so a missing field can take a neutral default.
type verificationResult struct {
	Supported     bool     `json:"supported"`
	Confidence    *float64 `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	Contradiction bool     `json:"contradiction"`
}

// Evaluate asks the model to classify the claim against the evidence.
// A response that cannot be parsed, or a generation failure after
// retries, degrades to the designated uncertain score instead of failing
// the evaluation.
func (e *GenerativeEvaluator) Evaluate(ctx context.Context, claim model.Claim, evidence []model.Evidence) (model.ClaimEvaluation, error) {
	if len(evidence) == 0 {
		return noEvidenceEvaluation(claim), nil
	}

	resp, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt: fmt.Sprintf(verificationPrompt, claim.Text, formatEvidence(evidence)),
		System: verificationSystemPrompt,
	})
	if err != nil {
		if ctx.Err() != nil {
			return model.ClaimEvaluation{}, ctx.Err()
		}
		return uncertainFallback(claim, evidence, fmt.Sprintf("verification request failed: %v", err)), nil
	}

	var result verificationResult
	raw := util.StripCodeFences(resp.Text)
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return uncertainFallback(claim, evidence, fmt.Sprintf("verification response could not be parsed: %v", err)), nil
	}

	confidence := 0.5
	if result.Confidence != nil {
		confidence = clamp01(*result.Confidence)
	}

	var score float64
	switch {
	case result.Contradiction:
		score = 0.0
	case result.Supported:
		score = confidence
	default:
		score = unsupportedScore
	}

	return model.ClaimEvaluation{
		Claim:     claim,
		Score:     score,
		Verdict:   model.VerdictForScore(score),
		Rationale: result.Reasoning,
		Method:    model.MethodGenerative,
		Evidence:  evidence,
	}, nil
}

// formatEvidence renders the top evidence items for the prompt
func formatEvidence(evidence []model.Evidence) string {
	n := len(evidence)
	if n > maxEvidenceInPrompt {
		n = maxEvidenceInPrompt
	}

	blocks := make([]string, 0, n)
	for _, ev := range evidence[:n] {
		blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", ev.Source, ev.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func uncertainFallback(claim model.Claim, evidence []model.Evidence, rationale string) model.ClaimEvaluation {
	return model.ClaimEvaluation{
		Claim:     claim,
		Score:     UncertainFallbackScore,
		Verdict:   model.VerdictForScore(UncertainFallbackScore),
		Rationale: rationale,
		Method:    model.MethodGenerativeFallback,
		Evidence:  evidence,
	}
}
