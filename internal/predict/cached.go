package predict

import (
	"context"
	"time"

	"github.com/kvasnov/perturbia/internal/cache"
)

// Cached wraps a predictor with a prediction cache. Hits and misses are
// counted so an evaluation run can report how much model traffic it
// actually generated.
type Cached struct {
	inner  Predictor
	cache  cache.Cache
	ttl    time.Duration
	hits   int
	misses int
}

// NewCached wraps a predictor with the given cache
func NewCached(inner Predictor, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: c, ttl: ttl}
}

// Name returns the underlying provider name
func (p *Cached) Name() string { return p.inner.Name() }

// Model returns the underlying model identifier
func (p *Cached) Model() string { return p.inner.Model() }

// Predict returns a cached answer when available, otherwise delegates and
// stores the result. Only successful predictions are cached.
func (p *Cached) Predict(ctx context.Context, question, passage string) (string, error) {
	key := cache.PredictionKey(p.Model(), question, passage)

	if val, found := p.cache.Get(key); found {
		p.hits++
		return string(val), nil
	}

	answer, err := p.inner.Predict(ctx, question, passage)
	if err != nil {
		return "", err
	}

	p.misses++
	_ = p.cache.Set(key, []byte(answer), p.ttl)

	return answer, nil
}

// Stats returns cache hit and miss counts
func (p *Cached) Stats() (hits, misses int) {
	return p.hits, p.misses
}
