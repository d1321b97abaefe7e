package agent

import (
	"context"
	"fmt"

	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/schema"
)

// synthesize produces the final answer from the full deduplicated evidence
// pool and the complete record history in a single generation call.
func (c *ChainOfRAG) synthesize(ctx context.Context, query string, evidence []schema.RetrievalResult, records []schema.IntermediateRecord) (string, int, error) {
	resp, err := c.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(finalAnswerPrompt, c.formatResults(evidence), renderRecords(records), query)))
	if err != nil {
		return "", 0, fmt.Errorf("synthesize final answer failed, err: %w", err)
	}
	return llm.RemoveThink(resp.Content), resp.TotalTokens, nil
}
