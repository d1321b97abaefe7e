package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/raglab/chainrag/schema"
)

// Memory is an in-process Provider for tests and small corpora. Search is a
// brute-force cosine-similarity scan.
type Memory struct {
	mu                sync.RWMutex
	defaultCollection string
	collections       map[string]*memoryCollection
	order             []string // creation order, for stable enumeration
}

type memoryCollection struct {
	description string
	dim         int
	chunks      []schema.Chunk
}

// NewMemory creates an empty in-memory store.
func NewMemory(defaultCollection string) *Memory {
	return &Memory{
		defaultCollection: defaultCollection,
		collections:       make(map[string]*memoryCollection),
	}
}

func (m *Memory) DefaultCollection() string { return m.defaultCollection }

func (m *Memory) CreateCollection(_ context.Context, name, description string, dim int) error {
	if name == "" {
		name = m.defaultCollection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; ok {
		return nil
	}
	m.collections[name] = &memoryCollection{description: description, dim: dim}
	m.order = append(m.order, name)
	return nil
}

func (m *Memory) ListCollections(_ context.Context, dim int) ([]schema.CollectionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]schema.CollectionInfo, 0, len(m.order))
	for _, name := range m.order {
		coll := m.collections[name]
		if dim > 0 && coll.dim != dim {
			continue
		}
		infos = append(infos, schema.CollectionInfo{Name: name, Description: coll.description})
	}
	return infos, nil
}

func (m *Memory) InsertChunks(_ context.Context, collection string, chunks []schema.Chunk) error {
	if collection == "" {
		collection = m.defaultCollection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %s does not exist", collection)
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) != coll.dim {
			return fmt.Errorf("chunk dimension %d does not match collection %s (dim=%d)", len(chunk.Embedding), collection, coll.dim)
		}
	}
	coll.chunks = append(coll.chunks, chunks...)
	return nil
}

func (m *Memory) Search(_ context.Context, collection string, vector []float32, _ string, topK int) ([]schema.RetrievalResult, error) {
	if collection == "" {
		collection = m.defaultCollection
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}

	results := make([]schema.RetrievalResult, 0, len(coll.chunks))
	for _, chunk := range coll.chunks {
		results = append(results, schema.RetrievalResult{
			Text:      chunk.Text,
			Embedding: chunk.Embedding,
			Reference: chunk.Reference,
			Score:     cosine(vector, chunk.Embedding),
			Metadata:  chunk.Metadata,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *Memory) DropCollection(_ context.Context, name string) error {
	if name == "" {
		name = m.defaultCollection
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
