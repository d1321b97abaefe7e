package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raglab/chainrag/common/logger"
	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/metrics"
	"github.com/raglab/chainrag/schema"
)

// retrieveAndAnswer retrieves evidence for one sub-query across the routed
// collections and generates an intermediate answer from it.
//
// The sub-query is embedded exactly once; the vector is shared by every
// collection search. Searches fan out concurrently and are joined before the
// dedup pass, so the merged slice preserves collection-selection order and
// is never raced.
func (c *ChainOfRAG) retrieveAndAnswer(ctx context.Context, subQuery string) (string, []schema.RetrievalResult, int, error) {
	var (
		selected []string
		cost     int
		err      error
	)
	if c.routeCollection {
		selected, cost, err = c.router.Invoke(ctx, subQuery)
	} else {
		selected, err = c.router.AllCollections(ctx)
	}
	if err != nil {
		return "", nil, 0, err
	}

	var retrieved []schema.RetrievalResult
	if len(selected) > 0 {
		vector, err := c.embedder.Embed(ctx, subQuery)
		if err != nil {
			return "", nil, 0, fmt.Errorf("embed sub-query failed, err: %w", err)
		}

		perCollection := make([][]schema.RetrievalResult, len(selected))
		g, gctx := errgroup.WithContext(ctx)
		for i, collection := range selected {
			g.Go(func() error {
				logger.Debugf("searching %q in collection %q", subQuery, collection)
				start := time.Now()
				results, err := c.store.Search(gctx, collection, vector, subQuery, c.topK)
				if err != nil {
					return fmt.Errorf("search collection %s failed, err: %w", collection, err)
				}
				metrics.ObserveSearch(collection, start, len(results))
				perCollection[i] = results
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", nil, 0, err
		}
		for _, results := range perCollection {
			retrieved = append(retrieved, results...)
		}
		retrieved = schema.Deduplicate(retrieved)
	}

	if len(retrieved) == 0 {
		// Nothing to answer from; short-circuit to the sentinel so the
		// filter step can skip its generation call too.
		return NoRelevantInformation, nil, cost, nil
	}

	resp, err := c.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(intermediateAnswerPrompt, c.formatResults(retrieved), subQuery)))
	if err != nil {
		return "", nil, 0, fmt.Errorf("intermediate answer failed, err: %w", err)
	}
	return llm.RemoveThink(resp.Content), retrieved, cost + resp.TotalTokens, nil
}
