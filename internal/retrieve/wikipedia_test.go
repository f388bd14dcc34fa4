package retrieve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newWikiServer fakes the MediaWiki API: list=search returns the given
// titles, prop=extracts returns canned content per title.
func newWikiServer(t *testing.T, titles []string, extracts map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case q.Get("list") == "search":
			var items []string
			for _, title := range titles {
				items = append(items, fmt.Sprintf(`{"title": %q}`, title))
			}
			fmt.Fprintf(w, `{"query": {"search": [%s]}}`, strings.Join(items, ","))

		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			fmt.Fprintf(w, `{"query": {"pages": {"1": {"title": %q, "extract": %q}}}}`,
				title, extracts[title])

		default:
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestWikipediaRetriever_Success(t *testing.T) {
	server := newWikiServer(t,
		[]string{"Ludwig van Beethoven", "Wolfgang Amadeus Mozart"},
		map[string]string{
			"Ludwig van Beethoven":    "Ludwig van Beethoven was a German composer.",
			"Wolfgang Amadeus Mozart": "Wolfgang Amadeus Mozart was a prolific composer.",
		})
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "Beethoven met Mozart in Vienna", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(evidence) != 2 {
		t.Fatalf("Expected 2 evidence items, got %d", len(evidence))
	}
	if evidence[0].Source != "Wikipedia: Ludwig van Beethoven" {
		t.Errorf("Unexpected source: %q", evidence[0].Source)
	}
	if !strings.Contains(evidence[0].Content, "German composer") {
		t.Errorf("Unexpected content: %q", evidence[0].Content)
	}
	if !strings.Contains(evidence[0].URL, "/wiki/Ludwig_van_Beethoven") {
		t.Errorf("Unexpected URL: %q", evidence[0].URL)
	}
}

func TestWikipediaRetriever_BoundsTopK(t *testing.T) {
	server := newWikiServer(t,
		[]string{"A", "B", "C"},
		map[string]string{"A": "Content A.", "B": "Content B.", "C": "Content C."})
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(evidence) != 2 {
		t.Errorf("Expected 2 evidence items, got %d", len(evidence))
	}
}

func TestWikipediaRetriever_NoResults(t *testing.T) {
	server := newWikiServer(t, nil, nil)
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "zxqw nonexistent", 3)
	if err != nil {
		t.Fatalf("Expected no error for empty results, got %v", err)
	}

	if len(evidence) != 0 {
		t.Errorf("Expected empty evidence, got %d items", len(evidence))
	}
}

func TestWikipediaRetriever_SkipsEmptyExtracts(t *testing.T) {
	server := newWikiServer(t,
		[]string{"Empty Page", "Real Page"},
		map[string]string{"Empty Page": "", "Real Page": "Some content."})
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(evidence) != 1 {
		t.Fatalf("Expected 1 evidence item, got %d", len(evidence))
	}
	if evidence[0].Source != "Wikipedia: Real Page" {
		t.Errorf("Unexpected source: %q", evidence[0].Source)
	}
}

func TestWikipediaRetriever_DegradesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Expected degraded empty result, got error %v", err)
	}

	if len(evidence) != 0 {
		t.Errorf("Expected empty evidence on server failure, got %d items", len(evidence))
	}
}

func TestWikipediaRetriever_CancelledContext(t *testing.T) {
	server := newWikiServer(t, []string{"A"}, map[string]string{"A": "Content."})
	defer server.Close()

	retriever := NewWikipediaRetriever(Config{WikiURL: server.URL, Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retriever.Retrieve(ctx, "query", 3)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestWikipediaRetriever_ZeroTopK(t *testing.T) {
	retriever := NewWikipediaRetriever(Config{WikiURL: "http://unused.invalid", Timeout: time.Second})
	evidence, err := retriever.Retrieve(context.Background(), "query", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(evidence) != 0 {
		t.Errorf("Expected no evidence for topK=0, got %d", len(evidence))
	}
}
