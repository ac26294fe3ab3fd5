package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Extractor converts an upload into plain text.
// Each extractor handles one or more formats (e.g., PDF, DOCX).
type Extractor interface {
	// Formats returns the formats this extractor handles.
	Formats() []domain.Format

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract returns the document text.
	// Empty output is not an error here; the pipeline decides what empty means.
	Extract(ctx context.Context, upload *domain.Upload) (string, error)
}
