package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/docqa/docqa-be/config"
	"github.com/docqa/docqa-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "DocumentChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "docId", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
		},
		VectorIndexType: "hnsw",
	}
)

type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	CHUNK_CLASS_OBJECT.Vectorizer = config.Text2Vec
	CHUNK_CLASS_OBJECT.ModuleConfig = config.ModuleConfig
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	// Create DocumentChunk class if it doesn't exist
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create DocumentChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete DocumentChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create DocumentChunk class: %v", err)
	}
	return nil
}

// InsertChunks stores chunks in batches. Vectorization happens server-side
// through the configured text2vec module.
func (s *WeaviateStore) InsertChunks(ctx context.Context, chunks []types.DocumentChunk) error {
	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class: CHUNK_CLASS,
				Properties: map[string]interface{}{
					"content": chunks[j].Content,
					"title":   chunks[j].Metadata.Title,
					"docId":   chunks[j].Metadata.DocumentID,
					"page":    chunks[j].Metadata.PageNum,
				},
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
	}
	return nil
}

func (s *WeaviateStore) Search(ctx context.Context, query string, limit int, documentID string) ([]ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "title"},
		{Name: "docId"},
		{Name: "page"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearText(nearText)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}
	if documentID != "" {
		getBuilder = getBuilder.WithWhere(documentFilter(documentID))
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var hits []ScoredChunk
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return hits, nil
	}
	if data, ok := get[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			hit := ScoredChunk{
				Chunk: types.DocumentChunk{
					Content: asString(obj["content"]),
					Metadata: types.ChunkMetadata{
						Title:      asString(obj["title"]),
						DocumentID: asString(obj["docId"]),
						PageNum:    asInt(obj["page"]),
					},
				},
			}
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if d, ok := additional["distance"].(float64); ok {
					hit.Distance = float32(d)
				}
			}
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// DeleteByDocument removes every chunk tagged with the document id using the
// server-side where-filtered batch delete, so there is no client-side
// scan window between listing and deleting.
func (s *WeaviateStore) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(documentFilter(documentID)).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete chunks of document %s: %v", documentID, err)
	}
	return nil
}

func documentFilter(documentID string) *filters.WhereBuilder {
	return filters.Where().
		WithPath([]string{"docId"}).
		WithOperator(filters.Equal).
		WithValueString(documentID)
}

// Helper functions
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}
