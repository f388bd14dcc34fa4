package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
	"github.com/ppiankov/veritas/internal/worker"
)

const (
	maxRetries = 3

	// maxResponseBytes caps how much of an upstream response is read
	maxResponseBytes = 2 << 20
)

// sleepFunc is the sleep function used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Retriever returns ranked evidence for a claim, most relevant first.
// Implementations bound results to topK and return an empty slice when
// nothing is found or the upstream source is unavailable after retries;
// the only returned error is context cancellation.
type Retriever interface {
	// Name returns the retrieval method name
	Name() string

	// Retrieve fetches evidence for the claim
	Retrieve(ctx context.Context, claim string, topK int) ([]model.Evidence, error)
}

// Config holds evidence retrieval configuration
type Config struct {
	// Method: "wikipedia", "web", "vector"
	Method string

	// WikiURL overrides the MediaWiki API endpoint
	WikiURL string

	// SearchURL overrides the web search endpoint
	SearchURL string

	// UserAgent sent with every request
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// RequestsPerSecond limits request rate per host
	RequestsPerSecond float64

	// BurstSize for the rate limiter
	BurstSize int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Weaviate connection settings for vector retrieval
	Weaviate WeaviateConfig
}

// WeaviateConfig points at a Weaviate instance holding evidence objects
type WeaviateConfig struct {
	Host   string
	Scheme string
	Class  string
}

// ConfigFromModel maps application configuration to retrieval configuration
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Method:            cfg.Retrieval.Method,
		WikiURL:           cfg.Retrieval.WikiURL,
		SearchURL:         cfg.Retrieval.SearchURL,
		UserAgent:         cfg.HTTP.UserAgent,
		Timeout:           time.Duration(cfg.HTTP.Timeout) * time.Second,
		RequestsPerSecond: cfg.RateLimiting.RequestsPerSecond,
		BurstSize:         cfg.RateLimiting.BurstSize,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		NoProxy:           cfg.HTTP.NoProxy,
		Weaviate: WeaviateConfig{
			Host:   cfg.Retrieval.Weaviate.Host,
			Scheme: cfg.Retrieval.Weaviate.Scheme,
			Class:  cfg.Retrieval.Weaviate.Class,
		},
	}
}

// NewRetriever creates the retriever selected by config. The provider is
// required for vector retrieval, which embeds the claim to query by
// similarity; other methods ignore it.
func NewRetriever(config Config, provider llm.Provider) (Retriever, error) {
	switch strings.ToLower(config.Method) {
	case "wikipedia":
		return NewWikipediaRetriever(config), nil
	case "web":
		return NewWebRetriever(config), nil
	case "vector":
		return NewVectorRetriever(config, provider)
	case "":
		return nil, fmt.Errorf("retrieval method is required (supported: wikipedia, web, vector)")
	default:
		return nil, fmt.Errorf("unknown retrieval method: %s (supported: wikipedia, web, vector)", config.Method)
	}
}

// fetcher issues rate-limited GET requests with bounded retries
type fetcher struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	userAgent  string
}

func newFetcher(config Config) *fetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2.0
	}
	return &fetcher{
		httpClient: util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		limiter:    worker.NewLimiter(rps, config.BurstSize),
		userAgent:  config.UserAgent,
	}
}

// get fetches a URL, retrying transient failures with exponential backoff
func (f *fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := f.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}

	return nil, lastErr
}

func (f *fetcher) getOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// statusError carries a non-200 HTTP status for retry classification
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

// isRetryable returns true for rate limits, server errors and transient
// network failures
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || (se.code >= 500 && se.code < 600)
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
