package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// HistoryStore persists question and answer transcripts across sessions.
type HistoryStore interface {
	// Append stores entries in order.
	Append(ctx context.Context, entries ...domain.QAEntry) error

	// List returns every stored entry, oldest first.
	List(ctx context.Context) ([]domain.QAEntry, error)
}
