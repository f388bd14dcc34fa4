package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// TextEvaluator produces a truthfulness report for a single text.
type TextEvaluator interface {
	EvaluateText(ctx context.Context, text string) (*model.Report, error)
}

// EvaluateJob evaluates one text from a batch.
type EvaluateJob struct {
	Index     int
	Text      string
	Evaluator TextEvaluator
}

// Execute runs the evaluation and wraps the outcome.
func (j *EvaluateJob) Execute(ctx context.Context) Result {
	report, err := j.Evaluator.EvaluateText(ctx, j.Text)
	return &EvaluateResult{
		Index:  j.Index,
		Text:   j.Text,
		Report: report,
		Error:  err,
	}
}

// EvaluateResult is the outcome of evaluating one batch entry. Index is
// the position of the text in the submitted batch.
type EvaluateResult struct {
	Index  int
	Text   string
	Report *model.Report
	Error  error
}

// Err returns the evaluation error, if any.
func (r *EvaluateResult) Err() error {
	return r.Error
}

// BatchProcessor evaluates multiple texts concurrently.
type BatchProcessor struct {
	evaluator   TextEvaluator
	concurrency int
}

// NewBatchProcessor creates a batch processor that runs at most
// concurrency evaluations in parallel.
func NewBatchProcessor(evaluator TextEvaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessTexts evaluates the given texts concurrently. Results are
// returned in input order. Entries skipped due to cancellation carry
// the context error.
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*EvaluateResult {
	if len(texts) == 0 {
		return []*EvaluateResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for i, text := range texts {
			job := &EvaluateJob{Index: i, Text: text, Evaluator: b.evaluator}
			if !pool.Submit(ctx, job) {
				return
			}
		}
	}()

	ordered := make([]*EvaluateResult, len(texts))
	for result := range pool.Results() {
		res, ok := result.(*EvaluateResult)
		if !ok {
			continue
		}
		if res.Index >= 0 && res.Index < len(ordered) {
			ordered[res.Index] = res
		}
	}

	// Cancellation can leave entries unprocessed
	for i, res := range ordered {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &EvaluateResult{Index: i, Text: texts[i], Error: err}
		}
	}

	return ordered
}

// ProcessFile reads texts from a file and evaluates them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvaluateResult, error) {
	texts, err := ReadTextsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts), nil
}

// ReadTextsFromFile reads texts from a file, one per line. Blank lines
// and lines starting with # are skipped, and duplicate lines are
// evaluated once.
func ReadTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			texts = append(texts, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
