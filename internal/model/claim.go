package model

import "strings"

// Claim represents an atomic factual assertion extracted from the input text
type Claim struct {
	Text    string `json:"text"`              // The claim text itself, self-contained
	Context string `json:"context,omitempty"` // Surrounding context from the source text
}

// NormalizeClaimText canonicalizes claim text for deduplication:
// lowercase with runs of whitespace collapsed to a single space.
func NormalizeClaimText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// DedupeClaims removes duplicate claims, keeping first-occurrence order.
// Duplicates are detected by case- and whitespace-insensitive exact match.
func DedupeClaims(claims []Claim) []Claim {
	seen := make(map[string]bool, len(claims))
	result := make([]Claim, 0, len(claims))

	for _, claim := range claims {
		key := NormalizeClaimText(claim.Text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, claim)
	}

	return result
}
