package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmbeddingsUnsupported is returned by providers without an embeddings
// API. Selecting the similarity strategy with such a provider is a
// configuration error caught at pipeline construction.
var ErrEmbeddingsUnsupported = errors.New("provider does not support embeddings")

// Provider defines the interface for LLM backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces text for a prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Embed returns one fixed-length vector per input text
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for a text generation call
type GenerateRequest struct {
	// Prompt is the user prompt
	Prompt string

	// System is an optional system prompt
	System string

	// Model overrides the configured model when set (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the generated text
type GenerateResponse struct {
	// Text is the generated output
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// EmbeddingModel for Embed calls (provider-specific)
	EmbeddingModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		Timeout:        30,
		MaxTokens:      1000,
		Temperature:    0.3,
	}
}

// SupportsEmbeddings reports whether the named provider can serve Embed
// calls. Anthropic exposes no embeddings API.
func SupportsEmbeddings(provider string) bool {
	switch strings.ToLower(provider) {
	case "anthropic", "claude":
		return false
	default:
		return true
	}
}
