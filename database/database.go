package database

import (
	"context"

	"github.com/docqa/docqa-be/types"
)

// ScoredChunk is a search hit with its embedding-space distance.
type ScoredChunk struct {
	Chunk    types.DocumentChunk
	Distance float32
}

// VectorDatabase defines the interface for the chunk index.
type VectorDatabase interface {
	// InsertChunks embeds and stores chunks tagged with their owning document.
	InsertChunks(ctx context.Context, chunks []types.DocumentChunk) error

	// Search returns up to limit chunks nearest to the query. An empty
	// documentID means unfiltered search across all documents.
	Search(ctx context.Context, query string, limit int, documentID string) ([]ScoredChunk, error)

	// DeleteByDocument removes every chunk owned by the given document.
	// Deleting a document with no chunks is a no-op, not an error.
	DeleteByDocument(ctx context.Context, documentID string) error
}
