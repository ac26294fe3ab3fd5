package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure ChallengeService implements the interface.
var _ driving.ChallengeService = (*ChallengeService)(nil)

// challengeContextLength bounds the document text questions are drawn from.
const challengeContextLength = 3000

// ChallengeService generates questions about a document and scores answers to them.
type ChallengeService struct {
	session   *domain.Session
	generator *Generator
	types     []domain.QuestionType
}

// NewChallengeService creates a challenge service. types is the mixed-mode
// taxonomy; empty uses domain.QuestionTaxonomy.
func NewChallengeService(session *domain.Session, generator *Generator, types []domain.QuestionType) *ChallengeService {
	if len(types) == 0 {
		types = domain.QuestionTaxonomy()
	}
	return &ChallengeService{
		session:   session,
		generator: generator,
		types:     types,
	}
}

// Generate creates questions from the opening of a document and stores them
// in the session. In mixed mode, questions that were generated are kept even
// when other types fail; the returned error then describes the failures.
func (s *ChallengeService) Generate(
	ctx context.Context, documentID string, questionType domain.QuestionType,
) ([]domain.Question, error) {
	if questionType == "" {
		questionType = domain.QuestionMixed
	}
	if !questionType.IsValid() {
		return nil, domain.NewUserError(domain.ErrInvalidInput,
			fmt.Sprintf("Unknown question type %q.", questionType))
	}

	doc, err := s.document(documentID)
	if err != nil {
		return nil, err
	}

	logger.Section("Challenge " + doc.Filename)
	source := domain.Truncate(doc.RawText, challengeContextLength)
	questions, err := collectQuestions(s.generator.GenerateQuestions(ctx, source, questionType, s.types))
	if len(questions) == 0 {
		if err == nil {
			err = domain.ErrGeneration
		}
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if err != nil {
		logger.Warn("some questions could not be generated: %v", err)
	}

	s.session.SetQuestions(doc.ID, questions)
	return questions, err
}

func (s *ChallengeService) document(id string) (*domain.Document, error) {
	if id == "" {
		return s.session.Current()
	}
	return s.session.Document(id)
}

// Questions returns the questions held in the session.
func (s *ChallengeService) Questions() []domain.Question {
	return s.session.Questions()
}

// Evaluate scores the answer to question i. Generation failures produce the
// unavailable evaluation rather than an error.
func (s *ChallengeService) Evaluate(ctx context.Context, i int, answer string) (domain.Evaluation, error) {
	q, err := s.session.Question(i)
	if err != nil {
		return domain.Evaluation{}, err
	}

	eval, err := s.generator.Evaluate(ctx, q.Text, answer, q.SourceContext).Get()
	if err != nil {
		logger.Warn("evaluation failed: %v", err)
		eval = domain.UnavailableEvaluation()
	}

	if err := s.session.RecordEvaluation(i, eval); err != nil {
		return domain.Evaluation{}, err
	}
	return eval, nil
}
