package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/raglab/chainrag/llm"
)

// fakeLLM routes each prompt through a handler and counts calls. Handlers
// inspect the prompt text to decide which chain step is asking.
type fakeLLM struct {
	t       *testing.T
	handler func(prompt string) (string, error)
	tokens  int
	calls   []string
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	prompt := messages[len(messages)-1].Content
	f.calls = append(f.calls, prompt)
	if f.handler == nil {
		f.t.Fatalf("unexpected llm call: %s", prompt)
	}
	content, err := f.handler(prompt)
	if err != nil {
		return nil, err
	}
	tokens := f.tokens
	if tokens == 0 {
		tokens = 7
	}
	return &llm.ChatResponse{Content: content, TotalTokens: tokens}, nil
}

// fakeEmbedder maps known texts to fixed vectors.
type fakeEmbedder struct {
	dims    int
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	// default direction for unknown texts
	v := make([]float32, f.dims)
	v[0] = 1
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

// prompt classifiers shared across tests

func isRoutingPrompt(p string) bool      { return strings.Contains(p, `"Collections"`) }
func isFollowupPrompt(p string) bool     { return strings.Contains(p, "follow-up question") }
func isIntermediatePrompt(p string) bool { return strings.Contains(p, "DO NOT hallucinate") }
func isFilterPrompt(p string) bool       { return strings.Contains(p, "Question-answer pair") }
func isReflectionPrompt(p string) bool   { return strings.Contains(p, "enough information") }
func isFinalPrompt(p string) bool        { return strings.Contains(p, "final answer for the main query") }

func unexpectedPrompt(p string) (string, error) {
	return "", fmt.Errorf("unexpected prompt: %s", p)
}
