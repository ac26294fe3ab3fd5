package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentService runs the ingestion pipeline and manages session documents.
type DocumentService interface {
	// Ingest validates, extracts, summarises, chunks and indexes an upload.
	// Failures are reported in the result, never as a raw error.
	Ingest(ctx context.Context, upload *domain.Upload) domain.IngestResult

	// List returns the documents in the current session.
	List() []*domain.Document

	// Get returns a session document by ID.
	Get(id string) (*domain.Document, error)

	// Current returns the selected session document.
	Current() (*domain.Document, error)

	// Select makes a session document current.
	Select(id string) error

	// Remove drops a document from the session. The index is append-only and keeps its entries.
	Remove(id string) error

	// Catalogue lists documents ingested in any session.
	Catalogue(ctx context.Context) ([]domain.Document, error)

	// Open loads a catalogued document into the session and selects it.
	Open(ctx context.Context, id string) (*domain.Document, error)
}
