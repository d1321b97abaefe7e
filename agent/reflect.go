package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/schema"
)

// nextSubQuery generates the follow-up question for the next iteration from
// the main query and everything learned so far. The returned sub-query is
// executed as-is; there is no validation of its well-formedness.
func (c *ChainOfRAG) nextSubQuery(ctx context.Context, query string, records []schema.IntermediateRecord) (string, int, error) {
	resp, err := c.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(followupQueryPrompt, renderRecords(records), query)))
	if err != nil {
		return "", 0, fmt.Errorf("generate follow-up query failed, err: %w", err)
	}
	return llm.RemoveThink(resp.Content), resp.TotalTokens, nil
}

// hasEnoughInfo decides whether the accumulated records suffice to answer
// the main query. With no records it returns false without a generation
// call, so an early stop can never fire before one full iteration.
//
// The reply is interpreted as true only when it trims and case-folds to
// exactly "yes": ambiguous output must never cause premature termination.
func (c *ChainOfRAG) hasEnoughInfo(ctx context.Context, query string, records []schema.IntermediateRecord) (bool, int, error) {
	if len(records) == 0 {
		return false, 0, nil
	}
	resp, err := c.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(reflectionPrompt, renderRecords(records), query)))
	if err != nil {
		return false, 0, fmt.Errorf("convergence check failed, err: %w", err)
	}
	enough := strings.EqualFold(strings.TrimSpace(llm.RemoveThink(resp.Content)), "yes")
	return enough, resp.TotalTokens, nil
}
