package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/raglab/chainrag/common/logger"
	"github.com/raglab/chainrag/config"
	"github.com/raglab/chainrag/schema"
)

const (
	fieldID        = "id"
	fieldEmbedding = "embedding"
	fieldText      = "text"
	fieldReference = "reference"
	fieldMetadata  = "metadata"

	textMaxLength      = 65535
	referenceMaxLength = 2048
	insertBatchSize    = 256
)

// Milvus implements Provider on a Milvus deployment. Collections use a fixed
// schema: auto-id primary key, float vector, text, reference and JSON
// metadata fields.
type Milvus struct {
	c                 client.Client
	defaultCollection string
	metricType        entity.MetricType
}

// NewMilvus connects to Milvus and returns a store provider.
func NewMilvus(ctx context.Context, cfg config.VectorDBConfig) (*Milvus, error) {
	mc, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
		APIKey:   cfg.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus failed, err: %w", err)
	}
	metric := entity.L2
	if cfg.MetricType == "IP" {
		metric = entity.IP
	}
	return &Milvus{
		c:                 mc,
		defaultCollection: cfg.Collection,
		metricType:        metric,
	}, nil
}

func (m *Milvus) DefaultCollection() string { return m.defaultCollection }

func (m *Milvus) ListCollections(ctx context.Context, dim int) ([]schema.CollectionInfo, error) {
	collections, err := m.c.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections failed, err: %w", err)
	}
	infos := make([]schema.CollectionInfo, 0, len(collections))
	for _, coll := range collections {
		desc, err := m.c.DescribeCollection(ctx, coll.Name)
		if err != nil {
			return nil, fmt.Errorf("describe collection %s failed, err: %w", coll.Name, err)
		}
		if dim > 0 && !vectorDimMatches(desc.Schema, dim) {
			continue
		}
		infos = append(infos, schema.CollectionInfo{
			Name:        coll.Name,
			Description: desc.Schema.Description,
		})
	}
	return infos, nil
}

func vectorDimMatches(s *entity.Schema, dim int) bool {
	if s == nil {
		return false
	}
	for _, f := range s.Fields {
		if f.Name != fieldEmbedding || f.DataType != entity.FieldTypeFloatVector {
			continue
		}
		raw, ok := f.TypeParams[entity.TypeParamDim]
		if !ok {
			return false
		}
		got, err := strconv.Atoi(raw)
		return err == nil && got == dim
	}
	return false
}

func (m *Milvus) CreateCollection(ctx context.Context, name, description string, dim int) error {
	if name == "" {
		name = m.defaultCollection
	}
	exists, err := m.c.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s failed, err: %w", name, err)
	}
	if exists {
		return nil
	}

	sch := entity.NewSchema().
		WithName(name).
		WithDescription(description).
		WithAutoID(true).
		WithField(entity.NewField().
			WithName(fieldID).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(true)).
		WithField(entity.NewField().
			WithName(fieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim))).
		WithField(entity.NewField().
			WithName(fieldText).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(textMaxLength)).
		WithField(entity.NewField().
			WithName(fieldReference).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(referenceMaxLength)).
		WithField(entity.NewField().
			WithName(fieldMetadata).
			WithDataType(entity.FieldTypeJSON))

	if err := m.c.CreateCollection(ctx, sch, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("create collection %s failed, err: %w", name, err)
	}
	index, err := entity.NewIndexAUTOINDEX(m.metricType)
	if err != nil {
		return fmt.Errorf("build index failed, err: %w", err)
	}
	if err := m.c.CreateIndex(ctx, name, fieldEmbedding, index, false); err != nil {
		return fmt.Errorf("create index on %s failed, err: %w", name, err)
	}
	if err := m.c.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("load collection %s failed, err: %w", name, err)
	}
	logger.Infof("created collection %s (dim=%d, metric=%s)", name, dim, m.metricType)
	return nil
}

func (m *Milvus) InsertChunks(ctx context.Context, collection string, chunks []schema.Chunk) error {
	if collection == "" {
		collection = m.defaultCollection
	}
	for start := 0; start < len(chunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := m.insertBatch(ctx, collection, chunks[start:end]); err != nil {
			return err
		}
	}
	if err := m.c.Flush(ctx, collection, false); err != nil {
		return fmt.Errorf("flush collection %s failed, err: %w", collection, err)
	}
	return nil
}

func (m *Milvus) insertBatch(ctx context.Context, collection string, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	dim := len(chunks[0].Embedding)
	vectors := make([][]float32, 0, len(chunks))
	texts := make([]string, 0, len(chunks))
	references := make([]string, 0, len(chunks))
	metadatas := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		meta := chunk.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata failed, err: %w", err)
		}
		vectors = append(vectors, chunk.Embedding)
		texts = append(texts, chunk.Text)
		references = append(references, chunk.Reference)
		metadatas = append(metadatas, raw)
	}
	_, err := m.c.Insert(ctx, collection, "",
		entity.NewColumnFloatVector(fieldEmbedding, dim, vectors),
		entity.NewColumnVarChar(fieldText, texts),
		entity.NewColumnVarChar(fieldReference, references),
		entity.NewColumnJSONBytes(fieldMetadata, metadatas),
	)
	if err != nil {
		return fmt.Errorf("insert into %s failed, err: %w", collection, err)
	}
	return nil
}

func (m *Milvus) Search(ctx context.Context, collection string, vector []float32, queryText string, topK int) ([]schema.RetrievalResult, error) {
	if collection == "" {
		collection = m.defaultCollection
	}
	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, fmt.Errorf("build search param failed, err: %w", err)
	}
	results, err := m.c.Search(ctx, collection, nil, "",
		[]string{fieldEmbedding, fieldText, fieldReference, fieldMetadata},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldEmbedding, m.metricType, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search %s failed, err: %w", collection, err)
	}

	var out []schema.RetrievalResult
	for _, res := range results {
		texts, _ := res.Fields.GetColumn(fieldText).(*entity.ColumnVarChar)
		references, _ := res.Fields.GetColumn(fieldReference).(*entity.ColumnVarChar)
		metadatas, _ := res.Fields.GetColumn(fieldMetadata).(*entity.ColumnJSONBytes)
		embeddings, _ := res.Fields.GetColumn(fieldEmbedding).(*entity.ColumnFloatVector)
		for i := 0; i < res.ResultCount; i++ {
			r := schema.RetrievalResult{Score: float64(res.Scores[i])}
			if texts != nil {
				r.Text = texts.Data()[i]
			}
			if references != nil {
				r.Reference = references.Data()[i]
			}
			if embeddings != nil {
				r.Embedding = embeddings.Data()[i]
			}
			if metadatas != nil {
				var meta map[string]any
				if err := json.Unmarshal(metadatas.Data()[i], &meta); err == nil {
					r.Metadata = meta
				}
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Milvus) DropCollection(ctx context.Context, name string) error {
	if name == "" {
		name = m.defaultCollection
	}
	if err := m.c.DropCollection(ctx, name); err != nil {
		return fmt.Errorf("drop collection %s failed, err: %w", name, err)
	}
	return nil
}

func (m *Milvus) Close() error {
	return m.c.Close()
}
