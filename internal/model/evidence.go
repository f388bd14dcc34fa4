package model

// Evidence represents a retrieved snippet of text with its provenance
type Evidence struct {
	Content   string  `json:"content"`             // The snippet text, never empty
	Source    string  `json:"source"`              // Human-readable origin (e.g., "Wikipedia: Laksa")
	URL       string  `json:"url,omitempty"`       // Link to the source, when known
	Relevance float64 `json:"relevance,omitempty"` // Retrieval relevance score, when the method reports one
}
