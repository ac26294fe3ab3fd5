package services

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// PipelineDeps are the adapters a Pipeline is assembled from.
type PipelineDeps struct {
	Extractors []driven.Extractor
	Chunker    driven.Chunker
	LLM        driven.LLMService
	Prompts    driven.PromptStore
	Tokens     driven.TokenCounter
	Index      driven.EmbeddingIndex

	// DocStore and History are optional.
	DocStore driven.DocumentStore
	History  driven.HistoryStore
}

// Pipeline wires the document, QA and challenge services around one session.
type Pipeline struct {
	Session    *domain.Session
	Documents  *DocumentService
	QA         *QAService
	Challenge  *ChallengeService
	Extraction *ExtractionService
	Generator  *Generator
}

// NewPipeline assembles the services for a fresh session.
func NewPipeline(settings domain.AppSettings, deps PipelineDeps) *Pipeline {
	session := domain.NewSession()
	extraction := NewExtractionService(settings.Ingest, deps.Extractors...)
	generator := NewGenerator(deps.LLM, deps.Prompts, deps.Tokens, settings.LLM)

	return &Pipeline{
		Session:    session,
		Extraction: extraction,
		Generator:  generator,
		Documents: NewDocumentService(
			session, extraction, deps.Chunker, generator, deps.Index, deps.DocStore, settings.Generation,
		),
		QA:        NewQAService(session, deps.Index, generator, deps.History, settings.Generation.RetrievalK),
		Challenge: NewChallengeService(session, generator, settings.Generation.QuestionTypes),
	}
}
