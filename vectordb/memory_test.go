package vectordb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raglab/chainrag/schema"
)

func TestMemory_SearchOrdersByScore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("default")
	require.NoError(t, m.CreateCollection(ctx, "docs", "test docs", 2))
	require.NoError(t, m.InsertChunks(ctx, "docs", []schema.Chunk{
		{Text: "orthogonal", Reference: "r1", Embedding: []float32{0, 1}},
		{Text: "aligned", Reference: "r2", Embedding: []float32{1, 0}},
		{Text: "diagonal", Reference: "r3", Embedding: []float32{1, 1}},
	}))

	results, err := m.Search(ctx, "docs", []float32{1, 0}, "", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "aligned", results[0].Text)
	assert.Equal(t, "diagonal", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemory_ListCollectionsFiltersByDim(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("default")
	require.NoError(t, m.CreateCollection(ctx, "small", "2d", 2))
	require.NoError(t, m.CreateCollection(ctx, "large", "4d", 4))

	infos, err := m.ListCollections(ctx, 2)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "small", infos[0].Name)

	infos, err = m.ListCollections(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestMemory_InsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("default")
	require.NoError(t, m.CreateCollection(ctx, "docs", "", 2))

	err := m.InsertChunks(ctx, "docs", []schema.Chunk{{Text: "x", Embedding: []float32{1, 2, 3}}})
	assert.Error(t, err)
}

func TestMemory_SearchUnknownCollection(t *testing.T) {
	m := NewMemory("default")
	_, err := m.Search(context.Background(), "nope", []float32{1}, "", 5)
	assert.Error(t, err)
}

func TestMemory_DropCollection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("default")
	require.NoError(t, m.CreateCollection(ctx, "docs", "", 2))
	require.NoError(t, m.DropCollection(ctx, "docs"))

	infos, err := m.ListCollections(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
