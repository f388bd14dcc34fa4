package retrieve

import (
	"context"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
)

// CachedRetriever wraps a retriever with an evidence cache so repeated
// evaluations of the same claims skip upstream calls. Empty results are
// not cached; a transient outage should not pin a claim to no evidence
// for the cache lifetime.
type CachedRetriever struct {
	inner Retriever
	store *cache.EvidenceCache
}

// NewCachedRetriever wraps inner with the given evidence cache
func NewCachedRetriever(inner Retriever, store *cache.EvidenceCache) *CachedRetriever {
	return &CachedRetriever{inner: inner, store: store}
}

// Name returns the wrapped retriever's method name
func (r *CachedRetriever) Name() string {
	return r.inner.Name()
}

// Retrieve serves evidence from the cache when possible
func (r *CachedRetriever) Retrieve(ctx context.Context, claim string, topK int) ([]model.Evidence, error) {
	if evidence, found := r.store.Get(r.inner.Name(), claim, topK); found {
		return evidence, nil
	}

	evidence, err := r.inner.Retrieve(ctx, claim, topK)
	if err != nil {
		return nil, err
	}

	if len(evidence) > 0 {
		_ = r.store.Set(r.inner.Name(), claim, topK, evidence)
	}
	return evidence, nil
}
