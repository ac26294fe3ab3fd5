package driven

import "context"

// VectorStore durably stores embedding records in one collection and
// searches them by cosine similarity.
// Records are append-only: there is no update or delete path.
type VectorStore interface {
	// Add appends records to the collection.
	Add(ctx context.Context, records []VectorRecord) error

	// Search returns up to k records nearest to the query vector, best first.
	// k larger than the collection returns every record.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// ByDocument returns a document's records ordered by position.
	// Embedding is not populated.
	ByDocument(ctx context.Context, documentID string) ([]VectorRecord, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored embedding with its chunk text and metadata.
type VectorRecord struct {
	// ChunkID identifies the chunk.
	ChunkID string

	// DocumentID links to the parent document.
	DocumentID string

	// Position is the chunk index within the document.
	Position int

	// Content is the full chunk text.
	Content string

	// Metadata is the enriched per-chunk metadata.
	Metadata map[string]any

	// Embedding is the L2-normalised vector.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Record is the matched record. Embedding is not populated.
	Record VectorRecord

	// Similarity is the cosine similarity score.
	Similarity float64
}
