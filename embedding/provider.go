package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raglab/chainrag/cache"
	"github.com/raglab/chainrag/config"
)

// Provider is the embedding capability. Dimensions is a shared configuration
// constant with the vector store: collections whose vector field has a
// different dimension are invisible to the chain.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// NewProvider creates an embedding provider from configuration. DashScope
// exposes an OpenAI-compatible endpoint, so both providers share the same
// client with different base URLs. When cache_entries is set, query
// embeddings are memoized in an LRU.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		p, err = newOpenAIProvider(cfg, "")
	case "dashscope", "qwen":
		p, err = newOpenAIProvider(cfg, "https://dashscope.aliyuncs.com/compatible-mode/v1")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheEntries > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		p = WithCache(p, cache.NewLRU(cfg.CacheEntries, ttl))
	}
	return p, nil
}
