package chainrag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/schema"
	"github.com/raglab/chainrag/vectordb"
)

type scriptedLLM struct {
	respond func(prompt string) string
}

func (s *scriptedLLM) Chat(_ context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	prompt := messages[len(messages)-1].Content
	return &llm.ChatResponse{Content: s.respond(prompt), TotalTokens: 3}, nil
}

type unitEmbedder struct{ dims int }

func (u *unitEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	v := make([]float32, u.dims)
	v[0] = 1
	return v, nil
}

func (u *unitEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := u.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (u *unitEmbedder) Dimensions() int { return u.dims }

func testConfig() *config.Config {
	cfg := &config.Config{
		Agent: config.AgentConfig{MaxIter: 1, TopK: 3},
	}
	cfg.Normalize()
	return cfg
}

func TestClient_IngestAndAnswer(t *testing.T) {
	ctx := context.Background()
	provider := &scriptedLLM{respond: func(prompt string) string {
		switch {
		case strings.Contains(prompt, "follow-up question"):
			return "What color is the sky?"
		case strings.Contains(prompt, "DO NOT hallucinate"):
			return "The sky is blue."
		case strings.Contains(prompt, "Question-answer pair"):
			return "[0]"
		case strings.Contains(prompt, "final answer for the main query"):
			return "The sky is blue."
		}
		return ""
	}}
	client := NewClientWithProviders(testConfig(), provider, &unitEmbedder{dims: 4}, vectordb.NewMemory("default"))

	require.NoError(t, client.CreateCollection(ctx, "facts", "general facts"))
	require.NoError(t, client.IngestChunks(ctx, "facts", []schema.Chunk{
		{Text: "The sky is blue on a clear day."},
		{Text: "Grass is green.", Reference: "grass-1"},
	}))

	infos, err := client.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "facts", infos[0].Name)
	assert.Equal(t, "general facts", infos[0].Description)

	result, err := client.Answer(ctx, "What color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", result.Answer)
	require.Len(t, result.Evidence, 1)
	// references default to generated ids when the caller leaves them empty
	assert.NotEmpty(t, result.Evidence[0].Reference)

	require.NoError(t, client.DropCollection(ctx, "facts"))
	infos, err = client.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
	require.NoError(t, client.Close())
}

func TestClient_IngestEmptyIsNoop(t *testing.T) {
	client := NewClientWithProviders(testConfig(), &scriptedLLM{}, &unitEmbedder{dims: 4}, vectordb.NewMemory("default"))
	require.NoError(t, client.IngestChunks(context.Background(), "missing", nil))
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM = config.LLMConfig{Provider: "parrot", APIKey: "k", Model: "m"}
	_, err := NewClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm provider")
}
