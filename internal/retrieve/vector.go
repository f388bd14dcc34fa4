package retrieve

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

const defaultWeaviateClass = "Evidence"

// VectorRetriever finds evidence by embedding the claim and querying a
// Weaviate class for the nearest stored objects. Objects are expected to
// carry content, source and url properties.
type VectorRetriever struct {
	client   *weaviate.Client
	provider llm.Provider
	class    string
}

// NewVectorRetriever creates a Weaviate-backed retriever. The provider
// supplies claim embeddings and must support them.
func NewVectorRetriever(config Config, provider llm.Provider) (*VectorRetriever, error) {
	if provider == nil {
		return nil, fmt.Errorf("vector retrieval requires an embedding provider")
	}
	if config.Weaviate.Host == "" {
		return nil, fmt.Errorf("vector retrieval requires a weaviate host")
	}

	scheme := config.Weaviate.Scheme
	if scheme == "" {
		scheme = "http"
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   config.Weaviate.Host,
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	class := config.Weaviate.Class
	if class == "" {
		class = defaultWeaviateClass
	}

	return &VectorRetriever{
		client:   client,
		provider: provider,
		class:    class,
	}, nil
}

// Name returns the retrieval method name
func (r *VectorRetriever) Name() string {
	return "vector"
}

// Retrieve embeds the claim and returns the nearest stored evidence
// objects. Query failures degrade to an empty result.
func (r *VectorRetriever) Retrieve(ctx context.Context, claim string, topK int) ([]model.Evidence, error) {
	if topK <= 0 {
		return []model.Evidence{}, nil
	}

	vectors, err := r.provider.Embed(ctx, []string{claim})
	if err != nil || len(vectors) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []model.Evidence{}, nil
	}

	nearVector := r.client.GraphQL().NearVectorArgBuilder().
		WithVector(vectors[0])

	// certainty is always in [0,1], unlike distance which varies by metric
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "url"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "certainty"},
		}},
	}

	result, err := r.client.GraphQL().Get().
		WithClassName(r.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []model.Evidence{}, nil
	}
	if len(result.Errors) > 0 {
		return []model.Evidence{}, nil
	}

	return parseVectorResults(result, r.class, topK), nil
}

// parseVectorResults walks the GraphQL response into evidence items
func parseVectorResults(result *models.GraphQLResponse, class string, topK int) []model.Evidence {
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return []model.Evidence{}
	}

	objects, ok := data[class].([]interface{})
	if !ok {
		return []model.Evidence{}
	}

	evidence := make([]model.Evidence, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}

		item := model.Evidence{
			Content: getString(m, "content"),
			Source:  getString(m, "source"),
			URL:     getString(m, "url"),
		}
		if item.Content == "" {
			continue
		}

		if additional, ok := m["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				item.Relevance = certainty
			}
		}

		evidence = append(evidence, item)
		if len(evidence) >= topK {
			break
		}
	}
	return evidence
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
