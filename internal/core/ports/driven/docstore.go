package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore persists the catalogue of ingested documents.
// Chunks are not stored here; they live with their embeddings.
type DocumentStore interface {
	// Save stores a document's text, summary and metadata.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID. Chunks are not populated.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all catalogued documents, newest first. RawText is not populated.
	List(ctx context.Context) ([]domain.Document, error)
}
