package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and evaluate the generated answer",
	Long: `Ask sends a question to the configured LLM, then evaluates the
truthfulness of the generated answer the same way check does.

The report includes the original question, the generated answer, and
the per-claim evaluation of that answer.

Example:
  veritas ask "Who composed the Moonlight Sonata?"
  veritas ask "When did the Berlin Wall fall?" --provider ollama --model llama3
  veritas ask "What is the boiling point of water?" --json answer.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	// Same evaluation flags as check; the backing variables are shared
	addEvaluationFlags(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

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
		fmt.Fprintf(os.Stderr, "⚙️  Generating answer...\n")
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	report, err := p.EvaluateQuery(ctx, question)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Generated answer (%d characters)\n", len(report.GeneratedAnswer))
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
