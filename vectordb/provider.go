package vectordb

import (
	"context"
	"fmt"
	"strings"

	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/schema"
)

// Provider is the vector-store capability: named collections of embedded
// passages, enumerable by embedding dimension and searchable by vector.
type Provider interface {
	// ListCollections enumerates collections whose vector field matches dim.
	// A dim of 0 disables the filter.
	ListCollections(ctx context.Context, dim int) ([]schema.CollectionInfo, error)
	// Search runs a similarity search in one collection. queryText is
	// passed along for stores capable of hybrid matching; implementations
	// may ignore it.
	Search(ctx context.Context, collection string, vector []float32, queryText string, topK int) ([]schema.RetrievalResult, error)
	// DefaultCollection names the collection that is always searched when
	// routing is active.
	DefaultCollection() string

	CreateCollection(ctx context.Context, name, description string, dim int) error
	InsertChunks(ctx context.Context, collection string, chunks []schema.Chunk) error
	DropCollection(ctx context.Context, name string) error
	Close() error
}

// NewProvider creates a vector store provider from configuration.
func NewProvider(ctx context.Context, cfg config.VectorDBConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "milvus":
		return NewMilvus(ctx, cfg)
	case "memory":
		return NewMemory(cfg.Collection), nil
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
