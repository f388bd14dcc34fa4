package model

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}

	if cfg.LLM.Provider != "openai" {
		t.Errorf("Expected default provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Retrieval.Method != "wikipedia" {
		t.Errorf("Expected default retrieval wikipedia, got %s", cfg.Retrieval.Method)
	}
	if cfg.Evaluation.Strategy != "generative" {
		t.Errorf("Expected default strategy generative, got %s", cfg.Evaluation.Strategy)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("Expected default top_k 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Concurrency.MaxConcurrency != 4 {
		t.Errorf("Expected default max_concurrency 4, got %d", cfg.Concurrency.MaxConcurrency)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing provider",
			mutate:  func(c *Config) { c.LLM.Provider = "" },
			wantErr: "provider is required",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "gpt9000" },
			wantErr: "unknown llm provider",
		},
		{
			name:    "claude alias accepted",
			mutate:  func(c *Config) { c.LLM.Provider = "claude" },
			wantErr: "",
		},
		{
			name:    "unknown retrieval method",
			mutate:  func(c *Config) { c.Retrieval.Method = "bing" },
			wantErr: "unknown retrieval method",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Evaluation.Strategy = "vibes" },
			wantErr: "unknown evaluation strategy",
		},
		{
			name:    "non-positive top_k",
			mutate:  func(c *Config) { c.Retrieval.TopK = 0 },
			wantErr: "top_k must be positive",
		},
		{
			name:    "non-positive max_concurrency",
			mutate:  func(c *Config) { c.Concurrency.MaxConcurrency = -1 },
			wantErr: "max_concurrency must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
