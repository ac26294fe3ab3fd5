package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// QAService answers questions from the embedding index.
type QAService struct {
	session   *domain.Session
	index     driven.EmbeddingIndex
	generator *Generator
	defaultK  int
	now       func() time.Time

	mu         sync.Mutex
	history    driven.HistoryStore
	saved      int
	generation uint64
}

// NewQAService creates a QA service. defaultK applies when Ask is called with k <= 0.
// history is optional; without it Save is a no-op.
func NewQAService(
	session *domain.Session,
	index driven.EmbeddingIndex,
	generator *Generator,
	history driven.HistoryStore,
	defaultK int,
) *QAService {
	if defaultK <= 0 {
		defaultK = domain.DefaultRetrievalK
	}
	return &QAService{
		session:   session,
		index:     index,
		generator: generator,
		defaultK:  defaultK,
		now:       time.Now,
		history:   history,
	}
}

// Ask retrieves the top k chunks and answers from them.
// Generation failures produce the fallback answer rather than an error,
// so the exchange always lands in the history.
func (s *QAService) Ask(ctx context.Context, question string, k int) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask: empty question: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.defaultK
	}

	logger.Section("Question")
	logger.Debug("Query: %q (k=%d)", question, k)

	retrieved, err := s.index.Retrieve(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("retrieved %d chunks", len(retrieved))

	answer, err := s.generator.Answer(ctx, question, retrieved).Get()
	if err != nil {
		logger.Warn("answer failed: %v", err)
		answer = domain.Answer{
			Question: question,
			Text:     domain.MsgAnswerFallback,
			Sources:  domain.NewSources(retrieved),
		}
	}

	s.session.AppendQA(domain.NewQAEntry(answer, s.now()))
	return &answer, nil
}

// History returns the session history, oldest first.
func (s *QAService) History() []domain.QAEntry {
	return s.session.History()
}

// Save persists session entries not yet written to the history store.
// Clearing the session starts a new transcript segment.
func (s *QAService) Save(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen := s.session.Generation(); gen != s.generation {
		s.generation = gen
		s.saved = 0
	}
	entries := s.session.History()
	if s.saved >= len(entries) {
		return nil
	}
	if err := s.history.Append(ctx, entries[s.saved:]...); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	logger.Debug("saved %d history entries", len(entries)-s.saved)
	s.saved = len(entries)
	return nil
}

// SavedHistory returns the persisted transcript, oldest first.
func (s *QAService) SavedHistory(ctx context.Context) ([]domain.QAEntry, error) {
	if s.history == nil {
		return []domain.QAEntry{}, nil
	}
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}
