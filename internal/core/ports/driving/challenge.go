package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ChallengeService generates quiz questions and evaluates answers to them.
type ChallengeService interface {
	// Generate creates questions from a document. An empty documentID uses
	// the current document. QuestionMixed asks for one of each type.
	Generate(ctx context.Context, documentID string, questionType domain.QuestionType) ([]domain.Question, error)

	// Questions returns the questions held in the session.
	Questions() []domain.Question

	// Evaluate scores the user's answer to question i.
	Evaluate(ctx context.Context, i int, answer string) (domain.Evaluation, error)
}
