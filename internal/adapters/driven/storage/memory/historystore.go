package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps transcripts in memory.
type HistoryStore struct {
	mu      sync.Mutex
	entries []domain.QAEntry
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append stores entries in order.
func (s *HistoryStore) Append(_ context.Context, entries ...domain.QAEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

// List returns a copy of every entry, oldest first.
func (s *HistoryStore) List(_ context.Context) ([]domain.QAEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.QAEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
