package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Renderer writes evaluation reports as JSON, Markdown, or terminal text
type Renderer struct {
	includeFooter bool
}

const reportFooter = "Generated by veritas. Scores estimate factual grounding against retrieved evidence; they are not ground truth."

// NewRenderer creates a renderer. The footer can be disabled for embedding
// report output in other documents.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a Markdown document to the given path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.markdown(report)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// markdown builds the Markdown document for a report
func (r *Renderer) markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Truthfulness Report\n\n")
	fmt.Fprintf(&b, "**Verdict:** %s (%.1f%%)\n\n", report.Verdict.Label(), report.Percent)
	fmt.Fprintf(&b, "Strategy: `%s` | Retrieval: `%s` | Claims: %d\n\n",
		report.Strategy, report.RetrievalMethod, report.Extraction.ClaimCount)

	if report.Query != "" {
		b.WriteString("## Question\n\n")
		fmt.Fprintf(&b, "> %s\n\n", report.Query)
		b.WriteString("## Generated Answer\n\n")
		fmt.Fprintf(&b, "> %s\n\n", report.GeneratedAnswer)
	} else {
		b.WriteString("## Evaluated Text\n\n")
		fmt.Fprintf(&b, "> %s\n\n", report.Text)
	}

	if report.Extraction.Fallback {
		fmt.Fprintf(&b, "> **Note:** claim extraction fell back to evaluating the whole text (%s).\n\n", report.Extraction.Reason)
	}

	if len(report.Claims) == 0 {
		fmt.Fprintf(&b, "%s\n", report.Rationale)
	} else {
		b.WriteString("## Claims\n\n")
		for i, claim := range report.Claims {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, claim.Claim.Text)
			fmt.Fprintf(&b, "- **Score:** %.1f%% (%s)\n", claim.Score*100, claim.Verdict.Label())
			fmt.Fprintf(&b, "- **Method:** %s\n", claim.Method)
			if claim.Rationale != "" {
				fmt.Fprintf(&b, "- **Rationale:** %s\n", claim.Rationale)
			}
			if len(claim.Evidence) > 0 {
				sources := make([]string, 0, len(claim.Evidence))
				for _, item := range claim.Evidence {
					sources = append(sources, item.Source)
				}
				fmt.Fprintf(&b, "- **Sources:** %s\n", strings.Join(sources, "; "))
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\n%s\n", reportFooter)
	}

	return b.String()
}

// RenderText writes the terminal summary of a report
func (r *Renderer) RenderText(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "Verdict: %s (%.1f%%)\n", report.Verdict.Label(), report.Percent)
	fmt.Fprintf(w, "Strategy: %s | Retrieval: %s | Claims: %d\n",
		report.Strategy, report.RetrievalMethod, report.Extraction.ClaimCount)

	if report.Query != "" {
		fmt.Fprintf(w, "\nQuestion: %s\n", report.Query)
		fmt.Fprintf(w, "Generated answer: %s\n", report.GeneratedAnswer)
	}

	if report.Extraction.Fallback {
		fmt.Fprintf(w, "\nNote: claim extraction fell back to evaluating the whole text (%s)\n", report.Extraction.Reason)
	}

	if len(report.Claims) == 0 {
		fmt.Fprintf(w, "\n%s\n", report.Rationale)
	} else {
		fmt.Fprintln(w, "\nClaims:")
		for i, claim := range report.Claims {
			fmt.Fprintf(w, "  %d. [%5.1f%%] %-20s %s\n", i+1, claim.Score*100, claim.Verdict.Label(), claim.Claim.Text)
			if claim.Rationale != "" {
				fmt.Fprintf(w, "     %s\n", claim.Rationale)
			}
		}
	}

	if r.includeFooter {
		fmt.Fprintf(w, "\n%s\n", reportFooter)
	}
}
