package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
)

const extractionPrompt = `Extract all atomic factual claims from the following text.
A factual claim is a statement that can be verified as true or false.

For each claim, provide:
1. The specific factual statement
2. The context (what it refers to)

Text to analyze:
%s

Format your response as a JSON array, where each item has:
- "claim": the specific factual statement
- "context": brief context about what this claim refers to

Example format:
[
  {"claim": "Beethoven met Mozart in Vienna", "context": "Historical meeting between composers"},
  {"claim": "The meeting occurred in 1787", "context": "Year of the meeting"}
]

Return ONLY the JSON array, no other text.`

const extractionSystemPrompt = "You are a precise fact extraction system. Extract only verifiable factual claims."

// Extraction is the outcome of decomposing text into claims. When the
// language model cannot produce a usable claim list, Fallback is true,
// Reason explains why, and Claims holds the whole input as a single claim.
type Extraction struct {
	Claims   []model.Claim `json:"claims"`
	Fallback bool          `json:"fallback,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// Extractor decomposes free-form text into atomic, independently
// verifiable claims using a language model.
type Extractor struct {
	provider llm.Provider
}

// NewExtractor creates a claim extractor backed by the given provider.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// claimEntry mirrors one element of the JSON array the model is asked to emit.
type claimEntry struct {
	Claim   string `json:"claim"`
	Context string `json:"context"`
}

// Extract decomposes text into deduplicated atomic claims.
//
// A model response that is empty or not a JSON array is recovered by
// treating the entire input as a single claim, so an extraction glitch
// degrades the score instead of aborting the evaluation. A well-formed
// response with zero claims is returned as an empty list, not a fallback.
// The only returned error is context cancellation.
func (e *Extractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Extraction{}, nil
	}

	resp, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt: fmt.Sprintf(extractionPrompt, text),
		System: extractionSystemPrompt,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return wholeTextFallback(text, fmt.Sprintf("extraction request failed: %v", err)), nil
	}

	raw := util.StripCodeFences(resp.Text)
	if raw == "" {
		return wholeTextFallback(text, "extraction returned an empty response"), nil
	}

	var entries []claimEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return wholeTextFallback(text, fmt.Sprintf("extraction response is not a JSON array: %v", err)), nil
	}

	claims := make([]model.Claim, 0, len(entries))
	for _, entry := range entries {
		claim := strings.TrimSpace(entry.Claim)
		if claim == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Text:    claim,
			Context: strings.TrimSpace(entry.Context),
		})
	}

	return &Extraction{Claims: model.DedupeClaims(claims)}, nil
}

func wholeTextFallback(text, reason string) *Extraction {
	return &Extraction{
		Claims:   []model.Claim{{Text: text, Context: "full input text"}},
		Fallback: true,
		Reason:   reason,
	}
}
