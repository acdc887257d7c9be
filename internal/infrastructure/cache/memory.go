package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kirillkom/legalease/internal/core/domain"
)

// AnalysisCache keeps summaries in memory, keyed by the SHA-256 of the text.
type AnalysisCache struct {
	cache *gocache.Cache
}

// NewAnalysisCache returns nil when ttl is not positive so callers can treat
// caching as disabled.
func NewAnalysisCache(ttl, cleanupInterval time.Duration) *AnalysisCache {
	if ttl <= 0 {
		return nil
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 2 * ttl
	}
	return &AnalysisCache{cache: gocache.New(ttl, cleanupInterval)}
}

func (c *AnalysisCache) Get(text string) (domain.SummaryResult, bool) {
	if val, found := c.cache.Get(Fingerprint(text)); found {
		if result, ok := val.(domain.SummaryResult); ok {
			return cloneResult(result), true
		}
	}
	return domain.SummaryResult{}, false
}

func (c *AnalysisCache) Set(text string, result domain.SummaryResult) {
	c.cache.SetDefault(Fingerprint(text), cloneResult(result))
}

func (c *AnalysisCache) Len() int {
	return c.cache.ItemCount()
}

func (c *AnalysisCache) Clear() {
	c.cache.Flush()
}

// Fingerprint is the cache key for a document text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneResult(in domain.SummaryResult) domain.SummaryResult {
	out := in
	out.KeyClauses = append([]domain.DetectedClause(nil), in.KeyClauses...)
	return out
}
