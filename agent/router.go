package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/raglab/chainrag/common/logger"
	"github.com/raglab/chainrag/llm"
	"github.com/raglab/chainrag/metrics"
	"github.com/raglab/chainrag/schema"
	"github.com/raglab/chainrag/vectordb"
)

// CollectionRouter selects the vector-store collections that are plausibly
// relevant to a sub-query. It reasons over collection descriptions with one
// generation call, except for the degenerate cases (zero or one collection)
// that need no reasoning.
type CollectionRouter struct {
	llm   llm.Provider
	store vectordb.Provider
	dim   int
}

// NewCollectionRouter creates a router scoped to collections whose vector
// field matches the embedding dimension.
func NewCollectionRouter(provider llm.Provider, store vectordb.Provider, dim int) *CollectionRouter {
	return &CollectionRouter{llm: provider, store: store, dim: dim}
}

// AllCollections returns every matching collection name in enumeration
// order. Used when routing is disabled.
func (r *CollectionRouter) AllCollections(ctx context.Context) ([]string, error) {
	infos, err := r.store.ListCollections(ctx, r.dim)
	if err != nil {
		return nil, fmt.Errorf("list collections failed, err: %w", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, nil
}

// Invoke returns the selected collection names and the tokens consumed.
// Zero registered collections is a degraded state, not an error: the caller
// treats it as "no evidence available". With exactly one collection the
// reasoning call is skipped.
func (r *CollectionRouter) Invoke(ctx context.Context, subQuery string) ([]string, int, error) {
	infos, err := r.store.ListCollections(ctx, r.dim)
	if err != nil {
		return nil, 0, fmt.Errorf("list collections failed, err: %w", err)
	}
	if len(infos) == 0 {
		logger.Warnf("no collections found in the vector store")
		return nil, 0, nil
	}
	if len(infos) == 1 {
		logger.Debugf("single collection %q, routing skipped", infos[0].Name)
		metrics.ObserveRouting(1)
		return []string{infos[0].Name}, 0, nil
	}

	resp, err := r.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(collectionRoutePrompt, subQuery, renderCollectionInfos(infos))))
	if err != nil {
		return nil, 0, fmt.Errorf("collection routing failed, err: %w", err)
	}
	selected, err := llm.ParseStringList(resp.Content)
	if err != nil {
		// Fatal: an unparsable routing reply must not degrade silently.
		return nil, 0, fmt.Errorf("collection routing reply: %w", err)
	}

	// Overlay: collections without a description give the model nothing to
	// reason about, and the default collection is always in scope.
	for _, info := range infos {
		if info.Description == "" {
			selected = append(selected, info.Name)
		}
		if r.store.DefaultCollection() == info.Name {
			selected = append(selected, info.Name)
		}
	}
	selected = dedupNames(selected)

	logger.Debugf("routed sub-query to collections %v", selected)
	metrics.ObserveRouting(len(selected))
	return selected, resp.TotalTokens, nil
}

func renderCollectionInfos(infos []schema.CollectionInfo) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, info := range infos {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{\"collection_name\": %q, \"collection_description\": %q}", info.Name, info.Description)
	}
	b.WriteByte(']')
	return b.String()
}

// dedupNames removes duplicates keeping first occurrence, so the model's
// selection order (followed by overlay additions) stays stable.
func dedupNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
