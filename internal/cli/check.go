package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON        string
	outMD          string
	timeout        time.Duration
	llmProvider    string
	llmModel       string
	retrievalFlag  string
	strategyFlag   string
	topK           int
	maxConcurrency int
	noCache        bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text|file|->",
	Short: "Evaluate the truthfulness of a text",
	Long: `Check evaluates a piece of text:
- Extract atomic factual claims
- Retrieve evidence for each claim
- Score each claim against its evidence
- Aggregate into a truthfulness score and verdict

The argument is the text itself, a path to a file containing the text,
or "-" to read from stdin.

Example:
  veritas check "The Eiffel Tower is located in Paris, France."
  veritas check answer.txt --json report.json --markdown report.md
  cat answer.txt | veritas check - --provider ollama --model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addEvaluationFlags(checkCmd)
}

// addEvaluationFlags registers the flag set shared by check and ask.
// The backing variables are package-level, so the flags may be registered
// on several commands.
func addEvaluationFlags(cmd *cobra.Command) {
	// Output flags
	cmd.Flags().StringVar(&outJSON, "json", "", "write JSON report to path")
	cmd.Flags().StringVar(&outMD, "markdown", "", "write Markdown report to path")

	// Evaluation flags
	cmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "model", "gpt-4o-mini", "LLM model name")
	cmd.Flags().StringVar(&retrievalFlag, "retrieval", "wikipedia", "evidence source (wikipedia, web, vector)")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "generative", "scoring strategy (similarity, generative)")
	cmd.Flags().IntVar(&topK, "top-k", 3, "max evidence items per claim")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 4, "max claims evaluated in parallel")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall evaluation timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable evidence caching")
}

// buildConfig assembles the effective configuration: defaults, then the
// config file and environment via viper, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("retrieval") {
		cfg.Retrieval.Method = retrievalFlag
	}
	if flags.Changed("strategy") {
		cfg.Evaluation.Strategy = strategyFlag
	}
	if flags.Changed("top-k") {
		cfg.Retrieval.TopK = topK
	}
	if flags.Changed("max-concurrency") {
		cfg.Concurrency.MaxConcurrency = maxConcurrency
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	return cfg, nil
}

// resolveAPIKey fills in provider credentials from the environment.
// A keyed provider without a key is an error before any network work.
func resolveAPIKey(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if cfg.LLM.BaseURL == "" {
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
	return nil
}

// readInput resolves the positional argument: "-" reads stdin, an existing
// file path reads that file, anything else is the text itself.
func readInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return strings.TrimSpace(arg), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("input text is empty")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Retrieval: %s (top %d)\n", cfg.Retrieval.Method, cfg.Retrieval.TopK)
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", cfg.Evaluation.Strategy)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	report, err := p.EvaluateText(ctx, text)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", report.Extraction.ClaimCount)
		fmt.Fprintf(os.Stderr, "✓ Evaluated in %v\n", report.Elapsed.Round(time.Millisecond))
		fmt.Fprintln(os.Stderr)
	}

	p.Renderer().RenderText(os.Stdout, report)

	if outJSON != "" || outMD != "" {
		if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	return nil
}
