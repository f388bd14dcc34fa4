package retrieve

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
)

const defaultSearchURL = "https://html.duckduckgo.com/html/"

// WebRetriever finds evidence through the DuckDuckGo HTML endpoint,
// using result snippets as evidence content. It honors robots.txt and
// per-host rate limits.
type WebRetriever struct {
	fetcher   *fetcher
	searchURL string
	robots    *util.RobotsChecker
}

// NewWebRetriever creates a web-search-backed retriever
func NewWebRetriever(config Config) *WebRetriever {
	searchURL := config.SearchURL
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WebRetriever{
		fetcher:   newFetcher(config),
		searchURL: searchURL,
		robots:    util.NewRobotsChecker(config.UserAgent, timeout),
	}
}

// Name returns the retrieval method name
func (r *WebRetriever) Name() string {
	return "web"
}

// Retrieve searches the web for the claim and returns result snippets as
// evidence. A robots.txt disallow or an unreachable endpoint degrades to
// an empty result.
func (r *WebRetriever) Retrieve(ctx context.Context, claim string, topK int) ([]model.Evidence, error) {
	if topK <= 0 {
		return []model.Evidence{}, nil
	}

	queryURL := fmt.Sprintf("%s?q=%s", r.searchURL, url.QueryEscape(claim))

	allowed, delay := r.robots.CanFetch(ctx, queryURL)
	if !allowed {
		return []model.Evidence{}, nil
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	body, err := r.fetcher.get(ctx, queryURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []model.Evidence{}, nil
	}

	results, err := parseSearchResults(body)
	if err != nil {
		return []model.Evidence{}, nil
	}

	evidence := make([]model.Evidence, 0, topK)
	for _, res := range results {
		if len(evidence) >= topK {
			break
		}
		evidence = append(evidence, model.Evidence{
			Content: res.snippet,
			Source:  res.title,
			URL:     res.url,
		})
	}
	return evidence, nil
}

type searchResult struct {
	title   string
	url     string
	snippet string
}

// parseSearchResults extracts titles, links and snippets from a DuckDuckGo
// HTML results page. Results missing a title or snippet are dropped.
func parseSearchResults(body []byte) ([]searchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []searchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "result__body") {
			res := searchResult{}
			if link := findByClass(n, "a", "result__a"); link != nil {
				res.title = nodeText(link)
				res.url = resolveResultURL(attrValue(link, "href"))
			}
			if snippet := findByClass(n, "", "result__snippet"); snippet != nil {
				res.snippet = nodeText(snippet)
			}
			if res.title != "" && res.snippet != "" {
				results = append(results, res)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// resolveResultURL unwraps DuckDuckGo redirect links to the target URL
func resolveResultURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}

// hasClass checks whether a node's class attribute contains the token
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// findByClass returns the first descendant with the given tag (any tag
// when empty) and class token
func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && (tag == "" || n.Data == tag) && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// nodeText collects the text content of a node and its descendants
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// attrValue returns the value of the named attribute, or empty
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
