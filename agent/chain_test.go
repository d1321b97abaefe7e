package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/schema"
	"github.com/raglab/chainrag/vectordb"
)

// ipoHandler drives the two-iteration scenario over a filings and a news
// collection: the IPO year comes from a filing, the CEO name from a news
// article, and the reflection step stops the loop after the second
// iteration.
type ipoHandler struct {
	followups     int
	routings      int
	intermediates int
	filters       int
	reflections   int
}

func (h *ipoHandler) handle(p string) (string, error) {
	switch {
	case isFollowupPrompt(p):
		h.followups++
		if h.followups == 1 {
			return "When did Company X IPO?", nil
		}
		return "Who was Company X's CEO in 2015?", nil
	case isRoutingPrompt(p):
		h.routings++
		if h.routings == 1 {
			return `['filings']`, nil
		}
		return `["news", "filings"]`, nil
	case isIntermediatePrompt(p):
		h.intermediates++
		if h.intermediates == 1 {
			return "Company X IPO'd in 2015.", nil
		}
		return "Jane Doe was Company X's CEO in 2015.", nil
	case isFilterPrompt(p):
		h.filters++
		if h.filters == 1 {
			return "[0]", nil
		}
		return "[0, 1]", nil
	case isReflectionPrompt(p):
		h.reflections++
		if h.reflections == 1 {
			return "No", nil
		}
		return "Yes", nil
	case isFinalPrompt(p):
		return "Company X IPO'd in 2015 under CEO Jane Doe.", nil
	}
	return unexpectedPrompt(p)
}

func newIPOStore(t *testing.T) *vectordb.Memory {
	t.Helper()
	ctx := context.Background()
	store := vectordb.NewMemory("news")
	require.NoError(t, store.CreateCollection(ctx, "filings", "SEC filings", 2))
	require.NoError(t, store.CreateCollection(ctx, "news", "news articles", 2))
	require.NoError(t, store.InsertChunks(ctx, "filings", []schema.Chunk{
		{Text: "Form S-1: Company X completed its IPO in 2015.", Reference: "filing-1", Embedding: []float32{1, 0}},
	}))
	require.NoError(t, store.InsertChunks(ctx, "news", []schema.Chunk{
		{Text: "Jane Doe, Company X's chief executive, rang the bell in 2015.", Reference: "news-1", Embedding: []float32{0, 1}},
	}))
	return store
}

func ipoEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 2, vectors: map[string][]float32{
		"When did Company X IPO?":          {1, 0},
		"Who was Company X's CEO in 2015?": {0, 1},
	}}
}

func TestAnswer_IPOScenario(t *testing.T) {
	handler := &ipoHandler{}
	provider := &fakeLLM{t: t, handler: handler.handle}
	chain := New(provider, ipoEmbedder(), newIPOStore(t), config.AgentConfig{
		MaxIter:         4,
		EarlyStopping:   true,
		RouteCollection: true,
		TopK:            5,
	})

	result, err := chain.Answer(context.Background(), "Who led Company X when it went public, and when was that?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "2015")
	assert.Contains(t, result.Answer, "Jane Doe")

	// early stop after the second iteration, well below the cap
	require.Len(t, result.Records, 2)
	assert.Equal(t, "When did Company X IPO?", result.Records[0].SubQuery)
	assert.Equal(t, "Company X IPO'd in 2015.", result.Records[0].Answer)
	assert.Equal(t, "Who was Company X's CEO in 2015?", result.Records[1].SubQuery)

	// the filing was selected in both iterations but the pool holds it once
	require.Len(t, result.Evidence, 2)
	refs := []string{result.Evidence[0].Reference, result.Evidence[1].Reference}
	assert.ElementsMatch(t, []string{"filing-1", "news-1"}, refs)

	// two iterations of five generation calls each, plus synthesis, at a
	// flat 7 tokens per call
	assert.Equal(t, 77, result.TokenUsage)
}

func TestRetrieve_ZeroCollectionsDegradesToSentinel(t *testing.T) {
	followups := 0
	provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
		if !isFollowupPrompt(p) {
			return unexpectedPrompt(p)
		}
		followups++
		return "sub-query", nil
	}}
	store := vectordb.NewMemory("default") // no collections created
	chain := New(provider, &fakeEmbedder{dims: 2}, store, config.AgentConfig{MaxIter: 2})

	result, err := chain.Retrieve(context.Background(), "q")
	require.NoError(t, err)

	assert.Empty(t, result.Evidence)
	require.Len(t, result.Records, 2)
	for _, record := range result.Records {
		assert.Equal(t, NoRelevantInformation, record.Answer)
	}
	// only the follow-up generation runs; answer and filter are skipped
	assert.Equal(t, 2, followups)
	assert.Equal(t, 14, result.TokenUsage)
}

func TestRetrieve_WithMaxIterOverride(t *testing.T) {
	provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
		if !isFollowupPrompt(p) {
			return unexpectedPrompt(p)
		}
		return "sub-query", nil
	}}
	store := vectordb.NewMemory("default")
	chain := New(provider, &fakeEmbedder{dims: 2}, store, config.AgentConfig{MaxIter: 4})

	result, err := chain.Retrieve(context.Background(), "q", WithMaxIter(1))
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
}

func TestRetrieve_NoEarlyStopRunsToCap(t *testing.T) {
	handler := &ipoHandler{}
	provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
		if isReflectionPrompt(p) {
			return unexpectedPrompt(p)
		}
		return handler.handle(p)
	}}
	chain := New(provider, ipoEmbedder(), newIPOStore(t), config.AgentConfig{
		MaxIter:         2,
		RouteCollection: true,
		TopK:            5,
	})

	result, err := chain.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	// early stopping disabled: exactly MaxIter iterations, no reflection call
	assert.Len(t, result.Records, 2)
}

func TestRetrieve_AllCollectionsWhenRoutingDisabled(t *testing.T) {
	handler := &ipoHandler{}
	provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
		if isRoutingPrompt(p) {
			return unexpectedPrompt(p)
		}
		return handler.handle(p)
	}}
	chain := New(provider, ipoEmbedder(), newIPOStore(t), config.AgentConfig{
		MaxIter: 1,
		TopK:    5,
	})

	result, err := chain.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Evidence, 1)
	assert.Equal(t, "filing-1", result.Evidence[0].Reference)
}
