package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/raglab/chainrag/config"
)

type openAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAIProvider(cfg config.LLMConfig, defaultBaseURL string) (Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIProvider{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (p *openAIProvider) Chat(ctx context.Context, messages []Message) (*ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: toUnionMessages(messages),
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed, err: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	total := int(completion.Usage.TotalTokens)
	if total == 0 {
		// Some OpenAI-compatible backends omit usage; estimate locally so
		// the accumulated cost stays monotonic.
		total = EstimateTokens(promptText(messages)) + EstimateTokens(content)
	}
	return &ChatResponse{Content: content, TotalTokens: total}, nil
}

func toUnionMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func promptText(messages []Message) string {
	var n int
	for _, m := range messages {
		n += len(m.Content) + 1
	}
	buf := make([]byte, 0, n)
	for _, m := range messages {
		buf = append(buf, m.Content...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
