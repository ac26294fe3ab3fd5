package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var errMock = errors.New("mock failure")

// mockLLM returns canned output chosen by the first matching prompt substring.
type mockLLM struct {
	mu        sync.Mutex
	responses map[string]string
	failOn    []string
	fallback  string
	delay     time.Duration
	prompts   []string
	opts      []driven.GenerateOptions
}

func newMockLLM() *mockLLM {
	return &mockLLM{responses: make(map[string]string)}
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(m.delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, f := range m.failOn {
		if strings.Contains(prompt, f) {
			return "", errMock
		}
	}
	for match, out := range m.responses {
		if strings.Contains(prompt, match) {
			return out, nil
		}
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return "", errMock
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) ModelName() string           { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// testPrompts mirrors the shipped templates closely enough for matching.
func testPrompts() map[string]string {
	prompts := map[string]string{
		driven.PromptSummary: "Summarize the following text in {{.MaxWords}} words:\n\n{{.Text}}\n",
		driven.PromptQA:      "Use the following context to answer the question.\nContext: {{.Context}}\nQuestion: {{.Question}}\n",
		driven.PromptEvaluation: "Given the question: {{.Question}}\nUser's answer: {{.Answer}}\n" +
			"Reference context: {{.Context}}\nEvaluate the answer for {{.Criteria}}.\n",
	}
	for _, qt := range domain.QuestionTaxonomy() {
		prompts[driven.QuestionPromptName(qt.String())] = "Create a " + qt.String() +
			" question based on this context:\n{{.Context}}\n"
	}
	return prompts
}

type mockPrompts struct {
	templates map[string]string
}

func newMockPrompts() *mockPrompts {
	return &mockPrompts{templates: testPrompts()}
}

func (m *mockPrompts) Load(name string) (string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return t, nil
}

func (m *mockPrompts) Reload() {}

// wordCounter counts whitespace-separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func (wordCounter) Truncate(text string, maxTokens int) string {
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return text
	}
	return strings.Join(words[:maxTokens], " ")
}

type mockExtractor struct {
	formats  []domain.Format
	priority int
	text     string
	err      error
	calls    int
}

func (m *mockExtractor) Formats() []domain.Format { return m.formats }
func (m *mockExtractor) Priority() int            { return m.priority }

func (m *mockExtractor) Extract(_ context.Context, _ *domain.Upload) (string, error) {
	m.calls++
	return m.text, m.err
}

// mockIndex keeps indexed chunks in memory and retrieves them in insertion order.
type mockIndex struct {
	mu          sync.Mutex
	chunks      []domain.Chunk
	docs        map[string]*domain.Document
	indexErr    error
	retrieveErr error
	lastK       int
}

func newMockIndex() *mockIndex {
	return &mockIndex{docs: make(map[string]*domain.Document)}
}

func (m *mockIndex) Index(_ context.Context, doc *domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return "", m.indexErr
	}
	m.chunks = append(m.chunks, doc.Chunks...)
	m.docs[doc.ID] = doc
	return domain.DocumentHandle(doc.Filename, len(doc.Chunks)), nil
}

func (m *mockIndex) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastK = k
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	out := []domain.RetrievedChunk{}
	for i, c := range m.chunks {
		if i == k {
			break
		}
		out = append(out, domain.RetrievedChunk{
			Content: c.Content,
			Metadata: map[string]any{
				domain.MetaDocumentID: c.DocumentID,
				domain.MetaChunkIndex: c.Index,
			},
			Score: 1 - float64(i)/10,
		})
	}
	return out, nil
}

func (m *mockIndex) Chunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks), nil
}

func (m *mockIndex) Close() error { return nil }
