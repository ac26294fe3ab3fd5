package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QAService answers questions against the indexed documents.
type QAService interface {
	// Ask retrieves the top k chunks and generates an answer conditioned on them.
	// The exchange is appended to the session history.
	Ask(ctx context.Context, question string, k int) (*domain.Answer, error)

	// History returns the session QA history, oldest first.
	History() []domain.QAEntry

	// Save persists session entries that have not been saved yet.
	Save(ctx context.Context) error

	// SavedHistory returns the persisted transcript from every session, oldest first.
	SavedHistory(ctx context.Context) ([]domain.QAEntry, error)
}
