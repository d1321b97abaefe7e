package schema

// RetrievalResult is one retrieved passage with its source locator,
// similarity score and metadata. Metadata may carry a "wider_text" entry
// holding the surrounding context of the passage.
type RetrievalResult struct {
	Text      string
	Embedding []float32
	Reference string
	Score     float64
	Metadata  map[string]any
}

// WiderTextKey is the metadata key holding the wider-context window of a
// passage when the ingesting splitter produced one.
const WiderTextKey = "wider_text"

// Key returns the identity of a result for deduplication purposes.
func (r RetrievalResult) Key() ResultKey {
	return ResultKey{Reference: r.Reference, Text: r.Text}
}

// ResultKey identifies a retrieval result by (reference, text), exact match.
type ResultKey struct {
	Reference string
	Text      string
}

// CollectionInfo describes one collection of the vector store.
type CollectionInfo struct {
	Name        string
	Description string
}

// IntermediateRecord is one completed iteration of the retrieval chain:
// the generated sub-query and the answer produced for it. Records are
// appended in iteration order and never mutated.
type IntermediateRecord struct {
	SubQuery string
	Answer   string
}

// Chunk is the ingestion unit: a pre-split piece of text with its source
// locator and optional metadata. Embedding is filled in during ingestion.
type Chunk struct {
	Text      string
	Reference string
	Metadata  map[string]any
	Embedding []float32
}
