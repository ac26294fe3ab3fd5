package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// EmbeddingIndex turns chunks into searchable vectors and retrieves them.
// Any vector-similarity backend can sit behind it.
type EmbeddingIndex interface {
	// Index embeds every chunk of doc and stores it with enriched metadata.
	// It returns the opaque document handle. Safe to call for many documents.
	Index(ctx context.Context, doc *domain.Document) (string, error)

	// Retrieve returns the k chunks most similar to query, best first.
	// k <= 0 uses domain.DefaultRetrievalK. An empty index returns an empty slice.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)

	// Chunks returns the stored chunks of one document in order.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
