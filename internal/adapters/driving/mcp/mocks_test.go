package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	result    domain.IngestResult
	opened    []string
	ingested  []*domain.Upload
	err       error
}

func (m *mockDocumentService) Ingest(_ context.Context, upload *domain.Upload) domain.IngestResult {
	m.ingested = append(m.ingested, upload)
	return m.result
}

func (m *mockDocumentService) List() []*domain.Document {
	out := make([]*domain.Document, len(m.documents))
	for i := range m.documents {
		out[i] = &m.documents[i]
	}
	return out
}

func (m *mockDocumentService) Get(id string) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].ID == id {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Current() (*domain.Document, error) {
	if len(m.documents) == 0 {
		return nil, domain.ErrNoDocument
	}
	return &m.documents[0], nil
}

func (m *mockDocumentService) Select(id string) error {
	_, err := m.Get(id)
	return err
}

func (m *mockDocumentService) Remove(id string) error {
	_, err := m.Get(id)
	return err
}

func (m *mockDocumentService) Catalogue(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Open(_ context.Context, id string) (*domain.Document, error) {
	m.opened = append(m.opened, id)
	if m.err != nil {
		return nil, m.err
	}
	return m.Get(id)
}

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	answer  *domain.Answer
	history []domain.QAEntry
	saves   int
	lastK   int
	err     error
}

func (m *mockQAService) Ask(_ context.Context, question string, k int) (*domain.Answer, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	m.history = append(m.history, domain.QAEntry{Question: question, Answer: m.answer.Text})
	return m.answer, nil
}

func (m *mockQAService) History() []domain.QAEntry {
	return m.history
}

func (m *mockQAService) Save(_ context.Context) error {
	m.saves++
	return nil
}

func (m *mockQAService) SavedHistory(_ context.Context) ([]domain.QAEntry, error) {
	return m.history, nil
}

// mockChallengeService is a mock implementation of driving.ChallengeService.
type mockChallengeService struct {
	questions  []domain.Question
	evaluation domain.Evaluation
	lastType   domain.QuestionType
	lastIndex  int
	err        error
}

func (m *mockChallengeService) Generate(
	_ context.Context,
	_ string,
	questionType domain.QuestionType,
) ([]domain.Question, error) {
	m.lastType = questionType
	return m.questions, m.err
}

func (m *mockChallengeService) Questions() []domain.Question {
	return m.questions
}

func (m *mockChallengeService) Evaluate(_ context.Context, i int, _ string) (domain.Evaluation, error) {
	m.lastIndex = i
	if i < 0 || i >= len(m.questions) {
		return domain.Evaluation{}, domain.ErrNotFound
	}
	return m.evaluation, nil
}

func newTestPorts() *Ports {
	return &Ports{
		Documents: &mockDocumentService{},
		QA:        &mockQAService{answer: &domain.Answer{}},
		Challenge: &mockChallengeService{},
	}
}
