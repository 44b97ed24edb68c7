package types

// Document is an uploaded PDF tracked by the store.
type Document struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	FileName   string `json:"file_name" bson:"file_name"`
	StoredName string `json:"stored_name" bson:"stored_name"`
	Summary    string `json:"summary,omitempty" bson:"summary,omitempty"`
	CoverImage string `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	PageCount  int    `json:"page_count" bson:"page_count"`
	UploadedAt int64  `json:"uploaded_at" bson:"uploaded_at"`
}

// Page is a rendered page image belonging to a Document.
// Page numbers are 1-based and unique within a document.
type Page struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	DocumentID string `json:"document_id" bson:"document_id"`
	PageNumber int    `json:"page_number" bson:"page_number"`
	Image      string `json:"image" bson:"image"`
}

// PageText is one extracted page of a PDF. Pages whose text is only
// whitespace are never emitted, so page numbers may be non-contiguous.
type PageText struct {
	PageNum int
	Text    string
}

// DocumentChunk is a bounded span of page text destined for the vector index.
type DocumentChunk struct {
	Content  string
	Metadata ChunkMetadata
}

// ChunkMetadata ties a chunk back to its source page and owning document.
type ChunkMetadata struct {
	DocumentID string
	Title      string
	PageNum    int
	TotalPages int
}

// DocumentServiceConfig contains configuration options for PDF processing
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}

// Answer is the structured response the composer extracts from the model.
type Answer struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Content  string   `json:"content"`
	Points   []string `json:"points"`
}
