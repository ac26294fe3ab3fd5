package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService runs the ingestion pipeline and manages the documents of one session.
type DocumentService struct {
	session    *domain.Session
	extraction *ExtractionService
	chunker    driven.Chunker
	generator  *Generator
	index      driven.EmbeddingIndex
	docStore   driven.DocumentStore
	settings   domain.GenerationSettings

	// mu serialises ingestion.
	mu  sync.Mutex
	now func() time.Time
}

// NewDocumentService creates a document service.
// docStore is optional; without it documents do not outlive the session.
func NewDocumentService(
	session *domain.Session,
	extraction *ExtractionService,
	chunker driven.Chunker,
	generator *Generator,
	index driven.EmbeddingIndex,
	docStore driven.DocumentStore,
	settings domain.GenerationSettings,
) *DocumentService {
	return &DocumentService{
		session:    session,
		extraction: extraction,
		chunker:    chunker,
		generator:  generator,
		index:      index,
		docStore:   docStore,
		settings:   settings,
		now:        time.Now,
	}
}

// Ingest validates, extracts, summarises, chunks and indexes an upload,
// then registers the document in the session and selects it.
// Nothing is indexed when validation or extraction fails.
func (s *DocumentService) Ingest(ctx context.Context, upload *domain.Upload) domain.IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.extraction.Validate(upload); err != nil {
		return failed(err)
	}

	logger.Section("Ingest " + upload.Filename)
	defer logger.Timed("ingest " + upload.Filename)()

	text, err := s.extraction.Extract(ctx, upload)
	if err != nil {
		logger.Debug("extraction failed: %v", err)
		return failed(err)
	}

	doc := &domain.Document{
		ID:        uuid.NewString(),
		Filename:  upload.Filename,
		Format:    upload.Format,
		RawText:   text,
		CreatedAt: s.now(),
	}

	doc.Summary = s.summarize(ctx, text)

	chunks, err := s.chunker.Chunk(ctx, doc)
	if err != nil {
		return failed(fmt.Errorf("chunk %s: %w", upload.Filename, err))
	}
	doc.Chunks = chunks
	doc.Metadata = domain.NewDocumentMetadata(upload, text, len(chunks))
	logger.Debug("%d chunks from %d characters", len(chunks), doc.Metadata.CharCount)

	handle, err := s.index.Index(ctx, doc)
	if err != nil {
		return failed(fmt.Errorf("index %s: %w", upload.Filename, err))
	}
	doc.Handle = handle

	s.session.AddDocument(doc)
	if s.docStore != nil {
		if err := s.docStore.Save(ctx, doc); err != nil {
			logger.Warn("could not save %s to the catalogue: %v", doc.Filename, err)
		}
	}

	logger.Info("Ingested %s as %s", doc.Filename, handle)
	return domain.IngestResult{
		Document: doc,
		Message:  fmt.Sprintf("Processed %s: %d chunks indexed.", doc.Filename, len(chunks)),
	}
}

func (s *DocumentService) summarize(ctx context.Context, text string) string {
	summary, err := s.generator.Summarize(ctx, text, s.settings.SummaryMaxWords).Get()
	if err != nil {
		logger.Warn("summary failed: %v", err)
		return domain.MsgSummaryFallback
	}
	return summary
}

func failed(err error) domain.IngestResult {
	return domain.IngestResult{Err: err, Message: domain.UserMessage(err)}
}

// List returns the session documents in ingestion order.
func (s *DocumentService) List() []*domain.Document {
	return s.session.Documents()
}

// Get returns a session document.
func (s *DocumentService) Get(id string) (*domain.Document, error) {
	return s.session.Document(id)
}

// Current returns the selected document.
func (s *DocumentService) Current() (*domain.Document, error) {
	return s.session.Current()
}

// Select makes a session document current.
func (s *DocumentService) Select(id string) error {
	return s.session.Select(id)
}

// Remove drops a document from the session. Its index entries stay.
func (s *DocumentService) Remove(id string) error {
	return s.session.Remove(id)
}

// Catalogue lists documents persisted by earlier sessions.
func (s *DocumentService) Catalogue(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		docs := s.session.Documents()
		out := make([]domain.Document, len(docs))
		for i, d := range docs {
			out[i] = *d
		}
		return out, nil
	}
	return s.docStore.List(ctx)
}

// Open loads a document into the session and selects it.
// Documents already in the session are selected without reloading.
func (s *DocumentService) Open(ctx context.Context, id string) (*domain.Document, error) {
	if doc, err := s.session.Document(id); err == nil {
		return doc, s.session.Select(id)
	}
	if s.docStore == nil {
		return nil, fmt.Errorf("open document %s: %w", id, domain.ErrNotFound)
	}

	doc, err := s.docStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", id, err)
	}

	chunks, err := s.index.Chunks(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load chunks for %s: %w", id, err)
	}
	doc.Chunks = chunks

	s.session.AddDocument(doc)
	return doc, nil
}
