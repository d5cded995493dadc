package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/peerplot/pkg/cache"
	"github.com/matzehuels/peerplot/pkg/observability"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// CachedSource serves Get from a cache before asking the wrapped source.
// List always goes to the wrapped source.
type CachedSource struct {
	Source
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// Cached wraps src. A nil keyer uses [cache.NewDefaultKeyer]; a zero ttl
// uses [cache.TTLQuestion].
func Cached(src Source, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedSource {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.TTLQuestion
	}
	return &CachedSource{Source: src, cache: c, keyer: keyer, ttl: ttl}
}

// Get returns a cached question when present. Cache failures fall through
// to the wrapped source.
func (s *CachedSource) Get(ctx context.Context, id string) (stats.Question, error) {
	key := s.keyer.QuestionKey(s.Name(), id)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var q stats.Question
		if json.Unmarshal(data, &q) == nil {
			observability.Cache().OnCacheHit(ctx, "question")
			return q, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "question")

	q, err := s.Source.Get(ctx, id)
	if err != nil {
		return q, err
	}
	if data, err := json.Marshal(q); err == nil {
		if s.cache.Set(ctx, key, data, s.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "question", len(data))
		}
	}
	return q, nil
}
