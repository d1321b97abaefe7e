package agent

import (
	"fmt"
	"strings"

	"github.com/raglab/chainrag/schema"
)

// formatResults renders evidence as a numbered document list for prompts.
// Indices are 0-based so filter replies map directly back to the slice.
// When the text-window splitter is enabled and a result carries a wider
// context window, the window replaces the exact passage text.
func (c *ChainOfRAG) formatResults(results []schema.RetrievalResult) string {
	docs := make([]string, 0, len(results))
	for i, result := range results {
		text := result.Text
		if c.textWindowSplitter {
			if wider, ok := result.Metadata[schema.WiderTextKey].(string); ok {
				text = wider
			}
		}
		docs = append(docs, fmt.Sprintf("<Document %d>\n%s\n</Document %d>", i, text, i))
	}
	return strings.Join(docs, "\n")
}

// renderRecords renders the iteration history the way every prompt expects
// it: one numbered query/answer pair per record, 1-based.
func renderRecords(records []schema.IntermediateRecord) string {
	lines := make([]string, 0, len(records))
	for i, record := range records {
		lines = append(lines, fmt.Sprintf("Intermediate query %d: %s\nIntermediate answer %d: %s", i+1, record.SubQuery, i+1, record.Answer))
	}
	return strings.Join(lines, "\n")
}
