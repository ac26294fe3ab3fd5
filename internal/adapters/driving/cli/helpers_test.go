package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockDocumentService implements driving.DocumentService for CLI tests.
type mockDocumentService struct {
	documents []domain.Document
	ingested  []*domain.Upload
	opened    []string
	failWith  string
	err       error
}

func (m *mockDocumentService) Ingest(_ context.Context, upload *domain.Upload) domain.IngestResult {
	m.ingested = append(m.ingested, upload)
	if m.failWith != "" {
		return domain.IngestResult{Err: domain.ErrExtraction, Message: m.failWith}
	}
	doc := &domain.Document{
		ID:       "doc-" + upload.Filename,
		Filename: upload.Filename,
		Format:   upload.Format,
		Summary:  "A summary of " + upload.Filename + ".",
		Metadata: domain.DocumentMetadata{TotalChunks: 2, WordCount: 40},
	}
	return domain.IngestResult{Document: doc, Message: "Ingested " + upload.Filename}
}

func (m *mockDocumentService) List() []*domain.Document { return nil }

func (m *mockDocumentService) Get(id string) (*domain.Document, error) {
	return m.find(id)
}

func (m *mockDocumentService) Current() (*domain.Document, error) { return nil, domain.ErrNoDocument }

func (m *mockDocumentService) Select(string) error { return nil }

func (m *mockDocumentService) Remove(string) error { return nil }

func (m *mockDocumentService) Catalogue(context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

func (m *mockDocumentService) Open(_ context.Context, id string) (*domain.Document, error) {
	m.opened = append(m.opened, id)
	return m.find(id)
}

func (m *mockDocumentService) find(id string) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].ID == id {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockQAService implements driving.QAService for CLI tests.
type mockQAService struct {
	answer  *domain.Answer
	saved   []domain.QAEntry
	lastK   int
	saves   int
	err     error
	saveErr error
}

func (m *mockQAService) Ask(_ context.Context, question string, k int) (*domain.Answer, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Question: question, Text: "An answer.", Sources: []domain.Source{}}, nil
}

func (m *mockQAService) History() []domain.QAEntry { return []domain.QAEntry{} }

func (m *mockQAService) Save(context.Context) error {
	m.saves++
	return m.saveErr
}

func (m *mockQAService) SavedHistory(context.Context) ([]domain.QAEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.saved, nil
}

// mockChallengeService implements driving.ChallengeService for CLI tests.
type mockChallengeService struct {
	questions []domain.Question
	genErr    error
	lastDoc   string
	lastType  domain.QuestionType
	evaluated map[int]string
}

func (m *mockChallengeService) Generate(
	_ context.Context, documentID string, qt domain.QuestionType,
) ([]domain.Question, error) {
	m.lastDoc = documentID
	m.lastType = qt
	return m.questions, m.genErr
}

func (m *mockChallengeService) Questions() []domain.Question { return m.questions }

func (m *mockChallengeService) Evaluate(_ context.Context, i int, answer string) (domain.Evaluation, error) {
	if i < 0 || i >= len(m.questions) {
		return domain.Evaluation{}, domain.ErrNotFound
	}
	if m.evaluated == nil {
		m.evaluated = make(map[int]string)
	}
	m.evaluated[i] = answer
	return domain.Evaluation{
		Score:        8,
		Feedback:     "Mostly right.",
		Strengths:    []string{"Accurate"},
		Improvements: []string{"Add detail"},
	}, nil
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings domain.AppSettings
	values   map[string]string
	setErr   error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), values: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Entries() ([]driving.SettingEntry, error) {
	return []driving.SettingEntry{
		{Key: "generation.retrieval_k", Value: "3"},
		{Key: "llm.model", Value: "llama3.2"},
	}, nil
}

type testServices struct {
	documents *mockDocumentService
	qa        *mockQAService
	challenge *mockChallengeService
	settings  *mockSettingsService
}

func sampleDocuments() []domain.Document {
	return []domain.Document{
		{
			ID: "d1", Filename: "old.txt", Format: domain.FormatText, Handle: "old.txt",
			Summary:   "An older document.",
			Metadata:  domain.DocumentMetadata{FileType: "txt", TotalChunks: 1},
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID: "d2", Filename: "report.pdf", Format: domain.FormatPDF, Handle: "report.pdf",
			Summary:   "Quarterly results.",
			Metadata:  domain.DocumentMetadata{FileType: "pdf", FileSize: 2048, TotalChunks: 4, WordCount: 900},
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
	}
}

// setupTestServices installs mock services and returns them with a cleanup
// func that restores the previous state.
func setupTestServices() (*testServices, func()) {
	oldDocs, oldQA, oldChallenge := documentService, qaService, challengeService
	oldSettings, oldFormats, oldBuilder, oldClose := settingsService, supportedFormats, builder, closeServices

	ts := &testServices{
		documents: &mockDocumentService{documents: sampleDocuments()},
		qa:        &mockQAService{},
		challenge: &mockChallengeService{},
		settings:  newMockSettingsService(),
	}
	SetServices(&Services{
		Documents: ts.documents,
		QA:        ts.qa,
		Challenge: ts.challenge,
		Formats:   domain.AllFormats(),
	})
	SetSettingsService(ts.settings)

	return ts, func() {
		documentService, qaService, challengeService = oldDocs, oldQA, oldChallenge
		settingsService, supportedFormats, builder, closeServices = oldSettings, oldFormats, oldBuilder, oldClose
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and stdin, returning its output.
func execute(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

var errBoom = errors.New("boom")
