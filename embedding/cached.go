package embedding

import (
	"context"

	"github.com/raglab/chainrag/cache"
)

// cached memoizes single-text embeddings. Embeddings are deterministic per
// (model, text), so memoization never changes retrieval semantics; it only
// avoids re-embedding a sub-query the model generates twice.
type cached struct {
	inner Provider
	store cache.Cache
}

// WithCache wraps a provider with LRU memoization of Embed calls.
// EmbedBatch (ingestion) is passed through uncached.
func WithCache(inner Provider, store cache.Cache) Provider {
	return &cached{inner: inner, store: store}
}

func (c *cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.store.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store.Set(text, vec)
	return vec, nil
}

func (c *cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedBatch(ctx, texts)
}

func (c *cached) Dimensions() int { return c.inner.Dimensions() }
