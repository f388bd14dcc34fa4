package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// Cache defines the interface for byte-level caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a versioned cache key for a retrieval query. Claims are
// normalized so trivially different phrasings of the same claim share an
// entry.
func Key(method, claim string, topK int) string {
	normalized := model.NormalizeClaimText(claim)
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", method, topK, normalized)))
	return "veritas:v1:" + hex.EncodeToString(hash[:])
}

// EvidenceCache stores retrieval results keyed by method, claim and topK
type EvidenceCache struct {
	store Cache
	ttl   time.Duration
}

// NewEvidenceCache wraps a byte cache with typed evidence storage
func NewEvidenceCache(store Cache, ttl time.Duration) *EvidenceCache {
	return &EvidenceCache{store: store, ttl: ttl}
}

// Get returns the cached evidence for a retrieval query, if present
func (c *EvidenceCache) Get(method, claim string, topK int) ([]model.Evidence, bool) {
	key := Key(method, claim, topK)
	data, found := c.store.Get(key)
	if !found {
		return nil, false
	}

	var evidence []model.Evidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		// Corrupt entry, drop it
		_ = c.store.Delete(key)
		return nil, false
	}
	return evidence, true
}

// Set stores the evidence for a retrieval query
func (c *EvidenceCache) Set(method, claim string, topK int, evidence []model.Evidence) error {
	data, err := json.Marshal(evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	return c.store.Set(Key(method, claim, topK), data, c.ttl)
}

// Clear removes all cached evidence
func (c *EvidenceCache) Clear() error {
	return c.store.Clear()
}
