package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/schema"
)

// supportedResults narrows retrieved evidence to the subset that supports
// the intermediate answer. A sentinel answer skips the generation call.
// Indices outside the evidence range are dropped silently; an unparsable
// reply is fatal.
func (c *ChainOfRAG) supportedResults(ctx context.Context, retrieved []schema.RetrievalResult, subQuery, answer string) ([]schema.RetrievalResult, int, error) {
	if isNoRelevantInformation(answer) {
		return nil, 0, nil
	}

	resp, err := c.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(supportedDocsPrompt, c.formatResults(retrieved), subQuery, answer)))
	if err != nil {
		return nil, 0, fmt.Errorf("select supported documents failed, err: %w", err)
	}
	indices, err := llm.ParseIntList(resp.Content)
	if err != nil {
		return nil, 0, fmt.Errorf("supported documents reply: %w", err)
	}

	supported := make([]schema.RetrievalResult, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(retrieved) {
			continue
		}
		supported = append(supported, retrieved[idx])
	}
	return supported, resp.TotalTokens, nil
}

func isNoRelevantInformation(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), NoRelevantInformation)
}
