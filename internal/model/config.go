package model

import "fmt"

// Config holds the complete veritas configuration. It is instance-scoped:
// callers pass a Config per evaluation and nothing in the pipeline mutates
// shared defaults.
type Config struct {
	LLM          LLMConfig         `json:"llm" yaml:"llm" mapstructure:"llm"`
	Retrieval    RetrievalConfig   `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Evaluation   EvaluationConfig  `json:"evaluation" yaml:"evaluation" mapstructure:"evaluation"`
	Concurrency  ConcurrencyConfig `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	HTTP         HTTPConfig        `json:"http" yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `json:"rate_limiting" yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the language-model gateway
type LLMConfig struct {
	Provider       string  `json:"provider" yaml:"provider" mapstructure:"provider"`                      // openai, anthropic, ollama
	Model          string  `json:"model" yaml:"model" mapstructure:"model"`                               // Provider-specific model name
	EmbeddingModel string  `json:"embedding_model" yaml:"embedding_model" mapstructure:"embedding_model"` // For the similarity strategy
	APIKey         string  `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`                     // Never serialized into reports
	BaseURL        string  `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`  // Custom endpoint (e.g., Ollama)
	Timeout        int     `json:"timeout" yaml:"timeout" mapstructure:"timeout"`                         // Seconds per request
	MaxTokens      int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature    float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// RetrievalConfig configures the evidence retriever
type RetrievalConfig struct {
	Method    string         `json:"method" yaml:"method" mapstructure:"method"` // wikipedia, web, vector
	TopK      int            `json:"top_k" yaml:"top_k" mapstructure:"top_k"`    // Max evidence items per claim
	WikiURL   string         `json:"wiki_url,omitempty" yaml:"wiki_url,omitempty" mapstructure:"wiki_url"`         // MediaWiki API endpoint override
	SearchURL string         `json:"search_url,omitempty" yaml:"search_url,omitempty" mapstructure:"search_url"` // Web search endpoint override
	Weaviate  WeaviateConfig `json:"weaviate" yaml:"weaviate" mapstructure:"weaviate"`
}

// WeaviateConfig configures the vector retrieval backend
type WeaviateConfig struct {
	Host   string `json:"host" yaml:"host" mapstructure:"host"`
	Scheme string `json:"scheme" yaml:"scheme" mapstructure:"scheme"`
	Class  string `json:"class" yaml:"class" mapstructure:"class"` // Class holding evidence objects
}

// EvaluationConfig configures the truthfulness evaluator
type EvaluationConfig struct {
	Strategy string `json:"strategy" yaml:"strategy" mapstructure:"strategy"` // similarity, generative
}

// ConcurrencyConfig bounds parallel per-claim work
type ConcurrencyConfig struct {
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// HTTPConfig configures outbound HTTP behavior for retrievers
type HTTPConfig struct {
	Timeout    int    `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // Seconds per request
	UserAgent  string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures evidence caching
type CacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"` // Disk cache location; empty = memory only
	TTL     int    `json:"ttl" yaml:"ttl" mapstructure:"ttl"`                     // Seconds
}

// RateLimitConfig paces outbound requests to evidence sources
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `json:"burst_size" yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Timeout:        30,
			MaxTokens:      1000,
			Temperature:    0.3,
		},
		Retrieval: RetrievalConfig{
			Method: "wikipedia",
			TopK:   3,
			Weaviate: WeaviateConfig{
				Host:   "localhost:8080",
				Scheme: "http",
				Class:  "Evidence",
			},
		},
		Evaluation: EvaluationConfig{
			Strategy: "generative",
		},
		Concurrency: ConcurrencyConfig{
			MaxConcurrency: 4,
		},
		HTTP: HTTPConfig{
			Timeout:   15,
			UserAgent: "Veritas/0.1 (+https://github.com/ppiankov/veritas)",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     3600,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// Validate rejects invalid configuration eagerly, before any component is
// built. Invalid values are errors, never coerced.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic", "claude", "ollama":
	case "":
		return fmt.Errorf("llm provider is required (supported: openai, anthropic, ollama)")
	default:
		return fmt.Errorf("unknown llm provider: %s (supported: openai, anthropic, ollama)", c.LLM.Provider)
	}

	switch c.Retrieval.Method {
	case "wikipedia", "web", "vector":
	default:
		return fmt.Errorf("unknown retrieval method: %s (supported: wikipedia, web, vector)", c.Retrieval.Method)
	}

	switch c.Evaluation.Strategy {
	case "similarity", "generative":
	default:
		return fmt.Errorf("unknown evaluation strategy: %s (supported: similarity, generative)", c.Evaluation.Strategy)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}

	if c.Concurrency.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.Concurrency.MaxConcurrency)
	}

	return nil
}
