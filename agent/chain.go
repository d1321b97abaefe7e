// Package agent implements the chain-of-retrieval controller: an iterative
// loop that decomposes a query into simple follow-ups, retrieves and filters
// evidence for each, and synthesizes one answer from everything learned.
package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/raglab/chainrag/common/logger"
	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/embedding"
	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/metrics"
	"github.com/raglab/chainrag/schema"
	"github.com/raglab/chainrag/vectordb"
)

// NoRelevantInformation is the answer the retrieval step produces when the
// documents contain nothing useful. The evidence filter recognizes it and
// skips its generation call.
const NoRelevantInformation = "No relevant information found"

// ChainOfRAG drives the retrieval chain. All state accumulated during one
// operation (records, evidence pool, token usage) is local to that call;
// nothing persists across calls and the zero value of the struct is not
// usable - construct it with New.
type ChainOfRAG struct {
	llm      llm.Provider
	embedder embedding.Provider
	store    vectordb.Provider
	router   *CollectionRouter

	maxIter            int
	earlyStopping      bool
	routeCollection    bool
	textWindowSplitter bool
	topK               int
}

// New creates a chain over explicit provider dependencies. Providers are
// injected rather than resolved globally so the chain stays substitutable
// with test doubles.
func New(provider llm.Provider, embedder embedding.Provider, store vectordb.Provider, cfg config.AgentConfig) *ChainOfRAG {
	maxIter := cfg.MaxIter
	if maxIter <= 0 {
		maxIter = 4
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &ChainOfRAG{
		llm:                provider,
		embedder:           embedder,
		store:              store,
		router:             NewCollectionRouter(provider, store, embedder.Dimensions()),
		maxIter:            maxIter,
		earlyStopping:      cfg.EarlyStopping,
		routeCollection:    cfg.RouteCollection,
		textWindowSplitter: cfg.TextWindowSplitter,
		topK:               topK,
	}
}

// Option adjusts a single Retrieve/Answer call.
type Option func(*callOptions)

type callOptions struct {
	maxIter int
}

// WithMaxIter overrides the configured iteration cap for one call.
func WithMaxIter(n int) Option {
	return func(o *callOptions) {
		if n > 0 {
			o.maxIter = n
		}
	}
}

// RetrieveResult is the outcome of the iterative retrieval loop.
type RetrieveResult struct {
	// Evidence is the deduplicated pool of supporting passages.
	Evidence []schema.RetrievalResult
	// Records lists every executed iteration in order.
	Records []schema.IntermediateRecord
	// TokenUsage is the total cost of all generation calls so far.
	TokenUsage int
}

// AnswerResult is the outcome of a full retrieve-and-synthesize operation.
type AnswerResult struct {
	Answer     string
	Evidence   []schema.RetrievalResult
	Records    []schema.IntermediateRecord
	TokenUsage int
}

// Retrieve runs the iteration loop: generate a follow-up sub-query, retrieve
// and answer it, keep the evidence that supports the answer, and optionally
// stop early once the accumulated records suffice to answer the main query.
// The iteration cap is the only circuit breaker; there is no token or
// wall-clock budget. Any provider failure aborts the whole operation.
func (c *ChainOfRAG) Retrieve(ctx context.Context, query string, opts ...Option) (*RetrieveResult, error) {
	call := callOptions{maxIter: c.maxIter}
	for _, opt := range opts {
		opt(&call)
	}

	opID := uuid.NewString()
	var (
		records    []schema.IntermediateRecord
		pool       []schema.RetrievalResult
		tokenUsage int
	)

	for iter := 1; iter <= call.maxIter; iter++ {
		logger.Infof("op %s: iteration %d/%d", opID, iter, call.maxIter)

		subQuery, nDecompose, err := c.nextSubQuery(ctx, query, records)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		answer, retrieved, nAnswer, err := c.retrieveAndAnswer(ctx, subQuery)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		supported, nFilter, err := c.supportedResults(ctx, retrieved, subQuery, answer)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		pool = schema.Deduplicate(append(pool, supported...))
		records = append(records, schema.IntermediateRecord{SubQuery: subQuery, Answer: answer})
		tokenUsage += nDecompose + nAnswer + nFilter
		metrics.AddTokens("decompose", nDecompose)
		metrics.AddTokens("answer", nAnswer)
		metrics.AddTokens("filter", nFilter)

		if c.earlyStopping {
			enough, nReflect, err := c.hasEnoughInfo(ctx, query, records)
			if err != nil {
				return nil, fmt.Errorf("iteration %d: %w", iter, err)
			}
			tokenUsage += nReflect
			metrics.AddTokens("reflect", nReflect)
			if enough {
				logger.Infof("op %s: early stop after iteration %d, enough information gathered", opID, iter)
				metrics.IncEarlyStop()
				break
			}
		}
	}

	metrics.ObserveIterations(len(records))
	return &RetrieveResult{
		Evidence:   schema.Deduplicate(pool),
		Records:    records,
		TokenUsage: tokenUsage,
	}, nil
}

// Answer composes Retrieve with a final synthesis call over the full
// evidence pool and record history.
func (c *ChainOfRAG) Answer(ctx context.Context, query string, opts ...Option) (*AnswerResult, error) {
	retrieved, err := c.Retrieve(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	logger.Infof("synthesizing answer from %d retrieved chunks", len(retrieved.Evidence))

	answer, nSynth, err := c.synthesize(ctx, query, retrieved.Evidence, retrieved.Records)
	if err != nil {
		return nil, err
	}
	metrics.AddTokens("synthesize", nSynth)

	return &AnswerResult{
		Answer:     answer,
		Evidence:   retrieved.Evidence,
		Records:    retrieved.Records,
		TokenUsage: retrieved.TokenUsage + nSynth,
	}, nil
}
