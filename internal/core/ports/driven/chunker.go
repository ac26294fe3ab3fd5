package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Chunker splits a document's raw text into chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk returns the ordered chunks of doc.RawText.
	// Chunk indices are contiguous from zero and carry doc.ID.
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
