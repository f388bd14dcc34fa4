package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

const (
	defaultWikiURL = "https://en.wikipedia.org/w/api.php"

	// extractSentences bounds how much of an article is used as evidence
	extractSentences = 10
)

// WikipediaRetriever finds evidence through the MediaWiki search API and
// reads the opening sentences of each matching article.
type WikipediaRetriever struct {
	fetcher *fetcher
	baseURL string
}

// NewWikipediaRetriever creates a Wikipedia-backed retriever
func NewWikipediaRetriever(config Config) *WikipediaRetriever {
	baseURL := config.WikiURL
	if baseURL == "" {
		baseURL = defaultWikiURL
	}
	return &WikipediaRetriever{
		fetcher: newFetcher(config),
		baseURL: baseURL,
	}
}

// Name returns the retrieval method name
func (r *WikipediaRetriever) Name() string {
	return "wikipedia"
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Retrieve searches Wikipedia for the claim and returns article openings
// as evidence. Pages that fail to load or have no extract are skipped;
// an unreachable API degrades to an empty result.
func (r *WikipediaRetriever) Retrieve(ctx context.Context, claim string, topK int) ([]model.Evidence, error) {
	if topK <= 0 {
		return []model.Evidence{}, nil
	}

	titles, err := r.search(ctx, claim, topK)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []model.Evidence{}, nil
	}

	evidence := make([]model.Evidence, 0, len(titles))
	for _, title := range titles {
		if len(evidence) >= topK {
			break
		}

		item, err := r.pageExtract(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if item.Content == "" {
			continue
		}
		evidence = append(evidence, item)
	}

	return evidence, nil
}

// search returns titles of articles matching the query, best match first
func (r *WikipediaRetriever) search(ctx context.Context, query string, limit int) ([]string, error) {
	searchURL := fmt.Sprintf("%s?action=query&list=search&srsearch=%s&srlimit=%d&format=json",
		r.baseURL, url.QueryEscape(query), limit)

	body, err := r.fetcher.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var resp wikiSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, result := range resp.Query.Search {
		titles = append(titles, result.Title)
	}
	return titles, nil
}

// pageExtract fetches the opening sentences of one article
func (r *WikipediaRetriever) pageExtract(ctx context.Context, title string) (model.Evidence, error) {
	extractURL := fmt.Sprintf("%s?action=query&prop=extracts&explaintext=1&exsentences=%d&redirects=1&titles=%s&format=json",
		r.baseURL, extractSentences, url.QueryEscape(title))

	body, err := r.fetcher.get(ctx, extractURL)
	if err != nil {
		return model.Evidence{}, err
	}

	var resp wikiExtractResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Evidence{}, fmt.Errorf("decode extract response: %w", err)
	}

	// One title per request, so at most one page comes back. Missing
	// pages carry an empty extract and are skipped by the caller.
	for _, page := range resp.Query.Pages {
		content := strings.TrimSpace(page.Extract)
		if content == "" {
			continue
		}
		pageTitle := page.Title
		if pageTitle == "" {
			pageTitle = title
		}
		return model.Evidence{
			Content: content,
			Source:  "Wikipedia: " + pageTitle,
			URL:     r.pageURL(pageTitle),
		}, nil
	}

	return model.Evidence{}, nil
}

func (r *WikipediaRetriever) pageURL(title string) string {
	root := strings.TrimSuffix(r.baseURL, "/w/api.php")
	return root + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}
