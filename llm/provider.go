package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raglab/chainrag/config"
)

// Message is one role-tagged entry of a chat prompt.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserMessage builds a single-user-message prompt, the common case across
// the chain's steps.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// ChatResponse carries generated text and the tokens the call consumed.
type ChatResponse struct {
	Content     string
	TotalTokens int
}

// Provider is the text-generation capability consumed by the chain. Every
// call is blocking; cancellation is the caller's context.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (*ChatResponse, error)
}

// ErrMalformedReply marks a model reply that does not parse where a
// structured reply is required. It is fatal to the whole operation:
// callers must not fall back to a best-effort interpretation.
var ErrMalformedReply = errors.New("malformed model reply")

// NewProvider creates a chat provider from configuration. DeepSeek and
// DashScope expose OpenAI-compatible endpoints, so all providers share the
// same client with different base URLs.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIProvider(cfg, "")
	case "deepseek":
		return newOpenAIProvider(cfg, "https://api.deepseek.com")
	case "dashscope", "qwen":
		return newOpenAIProvider(cfg, "https://dashscope.aliyuncs.com/compatible-mode/v1")
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
