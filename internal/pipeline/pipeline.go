package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/evaluate"
	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/retrieve"
)

// Pipeline orchestrates the complete evaluation: claim extraction,
// per-claim evidence retrieval, scoring, and aggregation.
type Pipeline struct {
	provider  llm.Provider
	extractor *extract.Extractor
	retriever retrieve.Retriever
	evaluator evaluate.Evaluator
	renderer  *Renderer
	config    *model.Config
}

// New creates a pipeline from the given configuration. Configuration
// problems (unknown provider, missing credential, invalid enum values)
// are fatal here, never deferred to the first evaluation.
func New(cfg *model.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}

	retriever, err := retrieve.NewRetriever(retrieve.ConfigFromModel(cfg), provider)
	if err != nil {
		return nil, fmt.Errorf("create retriever: %w", err)
	}
	if cfg.Cache.Enabled {
		retriever = retrieve.NewCachedRetriever(retriever, newEvidenceCache(cfg.Cache))
	}

	evaluator, err := evaluate.NewEvaluator(cfg.Evaluation.Strategy, provider)
	if err != nil {
		return nil, fmt.Errorf("create evaluator: %w", err)
	}

	return &Pipeline{
		provider:  provider,
		extractor: extract.NewExtractor(provider),
		retriever: retriever,
		evaluator: evaluator,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
	}, nil
}

// newEvidenceCache builds the cache stack: memory only, or memory over
// disk when a cache directory is configured.
func newEvidenceCache(cfg model.CacheConfig) *cache.EvidenceCache {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	var store cache.Cache
	if cfg.Dir != "" {
		store = cache.NewLayeredCache(ttl, cfg.Dir, ttl)
	} else {
		store = cache.NewMemoryCache(ttl, 0)
	}

	return cache.NewEvidenceCache(store, ttl)
}

// EvaluateText scores the factual truthfulness of a text. It always
// returns either a well-formed report or a single explicit error, never
// a partial report.
func (p *Pipeline) EvaluateText(ctx context.Context, text string) (*model.Report, error) {
	start := time.Now()

	// 1. Decompose the text into atomic claims
	extraction, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	// 2. Retrieve evidence and score each claim concurrently
	evaluations, err := p.evaluateClaims(ctx, extraction.Claims)
	if err != nil {
		return nil, err
	}

	// 3. Aggregate into the report
	report := p.buildReport(text, extraction, evaluations)
	report.Elapsed = time.Since(start)

	return report, nil
}

// EvaluateQuery answers a question with the configured model and then
// evaluates the generated answer. Generation failure fails the call;
// there is nothing meaningful to score without an answer.
func (p *Pipeline) EvaluateQuery(ctx context.Context, query string) (*model.Report, error) {
	start := time.Now()

	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{Prompt: query})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return nil, fmt.Errorf("model returned an empty answer")
	}

	report, err := p.EvaluateText(ctx, answer)
	if err != nil {
		return nil, err
	}

	report.Query = query
	report.GeneratedAnswer = answer
	report.Elapsed = time.Since(start)

	return report, nil
}

// evaluateClaims runs retrieval and evaluation for every claim, bounded
// by the configured concurrency. Results keep extraction order. The only
// error source is context cancellation; all other failures degrade inside
// the components.
func (p *Pipeline) evaluateClaims(ctx context.Context, claims []model.Claim) ([]model.ClaimEvaluation, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	topK := p.config.Retrieval.TopK
	workers := p.config.Concurrency.MaxConcurrency

	evaluations := make([]model.ClaimEvaluation, len(claims))
	errs := make([]error, len(claims))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, claim model.Claim) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			evidence, err := p.retriever.Retrieve(ctx, claim.Text, topK)
			if err != nil {
				errs[idx] = err
				return
			}

			evaluation, err := p.evaluator.Evaluate(ctx, claim, evidence)
			if err != nil {
				errs[idx] = err
				return
			}
			evaluations[idx] = evaluation
		}(i, claim)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("evaluate claim %d: %w", i+1, err)
		}
	}

	return evaluations, nil
}

// buildReport aggregates per-claim evaluations into the final report.
func (p *Pipeline) buildReport(text string, extraction *extract.Extraction, evaluations []model.ClaimEvaluation) *model.Report {
	if evaluations == nil {
		evaluations = []model.ClaimEvaluation{}
	}

	score := model.AggregateScore(evaluations)

	report := &model.Report{
		Text:        text,
		EvaluatedAt: time.Now().UTC(),
		Extraction: model.ExtractionMeta{
			ClaimCount: len(extraction.Claims),
			Fallback:   extraction.Fallback,
			Reason:     extraction.Reason,
		},
		Claims:          evaluations,
		Score:           score,
		Percent:         score * 100,
		Verdict:         model.VerdictForScore(score),
		Strategy:        p.config.Evaluation.Strategy,
		RetrievalMethod: p.retriever.Name(),
	}

	if len(evaluations) == 0 {
		report.Rationale = model.NoClaimsRationale
	}

	return report
}

// RenderReport writes the report to the requested outputs and prints the
// terminal summary.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

// Renderer exposes the pipeline's renderer for callers that stream text
// output themselves.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
