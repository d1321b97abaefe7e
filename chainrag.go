// Package chainrag wires the chain-of-retrieval agent to concrete llm,
// embedding and vector store providers and exposes a single client for
// answering queries and managing collections.
package chainrag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/raglab/chainrag/agent"
	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/embedding"
	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/schema"
	"github.com/raglab/chainrag/vectordb"
)

// Client holds the provider set and the chain built over it. A Client is
// safe for concurrent use; each Answer/Retrieve call carries its own state.
type Client struct {
	config   *config.Config
	llm      llm.Provider
	embedder embedding.Provider
	store    vectordb.Provider
	chain    *agent.ChainOfRAG
}

// NewClient builds a client from configuration, constructing every provider
// from its configured backend.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}

	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
	}

	store, err := vectordb.NewProvider(ctx, cfg.VectorDB)
	if err != nil {
		return nil, fmt.Errorf("create vector store provider failed, err: %w", err)
	}

	return NewClientWithProviders(cfg, llmProvider, embedder, store), nil
}

// NewClientWithProviders builds a client over already-constructed providers.
// Callers that manage provider lifecycles themselves, or substitute test
// doubles, use this instead of NewClient.
func NewClientWithProviders(cfg *config.Config, llmProvider llm.Provider, embedder embedding.Provider, store vectordb.Provider) *Client {
	return &Client{
		config:   cfg,
		llm:      llmProvider,
		embedder: embedder,
		store:    store,
		chain:    agent.New(llmProvider, embedder, store, cfg.Agent),
	}
}

// Answer runs the full retrieve-and-synthesize operation for one query.
func (c *Client) Answer(ctx context.Context, query string, opts ...agent.Option) (*agent.AnswerResult, error) {
	return c.chain.Answer(ctx, query, opts...)
}

// Retrieve runs only the iterative retrieval loop, returning the evidence
// pool and iteration records without a final synthesis call.
func (c *Client) Retrieve(ctx context.Context, query string, opts ...agent.Option) (*agent.RetrieveResult, error) {
	return c.chain.Retrieve(ctx, query, opts...)
}

// CreateCollection creates a collection sized to the embedding provider's
// dimension. The description is what the collection router reasons over, so
// it should say what the collection actually contains.
func (c *Client) CreateCollection(ctx context.Context, name, description string) error {
	if err := c.store.CreateCollection(ctx, name, description, c.embedder.Dimensions()); err != nil {
		return fmt.Errorf("create collection failed, err: %w", err)
	}
	return nil
}

// IngestChunks embeds the chunk texts in one batch and inserts them into the
// collection. Chunks that already carry an embedding are embedded again;
// the stored vector always comes from the configured provider.
func (c *Client) IngestChunks(ctx context.Context, collection string, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks failed, err: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		if chunks[i].Reference == "" {
			chunks[i].Reference = uuid.NewString()
		}
	}
	if err := c.store.InsertChunks(ctx, collection, chunks); err != nil {
		return fmt.Errorf("insert chunks failed, err: %w", err)
	}
	return nil
}

// ListCollections enumerates the collections visible to the chain, filtered
// to the embedding provider's dimension.
func (c *Client) ListCollections(ctx context.Context) ([]schema.CollectionInfo, error) {
	infos, err := c.store.ListCollections(ctx, c.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("list collections failed, err: %w", err)
	}
	return infos, nil
}

// DropCollection removes a collection and its contents.
func (c *Client) DropCollection(ctx context.Context, name string) error {
	if err := c.store.DropCollection(ctx, name); err != nil {
		return fmt.Errorf("drop collection failed, err: %w", err)
	}
	return nil
}

// Close releases the vector store connection.
func (c *Client) Close() error {
	return c.store.Close()
}
