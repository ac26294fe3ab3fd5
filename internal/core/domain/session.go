package domain

import (
	"fmt"
	"sync"
)

// Session is the explicit per-user context held by the orchestrating services.
// It owns the ingested documents, the current selection, the QA history,
// and the challenge questions with their evaluations.
// All methods are safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	documents   []*Document
	currentID   string
	history     []QAEntry
	questions   []Question
	questionDoc string
	evaluations map[int]Evaluation
	generation  uint64
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		evaluations: make(map[int]Evaluation),
	}
}

// AddDocument registers a document and makes it current.
// A document with the same ID replaces the earlier entry.
func (s *Session) AddDocument(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.documents {
		if d.ID == doc.ID {
			s.documents[i] = doc
			s.currentID = doc.ID
			return
		}
	}
	s.documents = append(s.documents, doc)
	s.currentID = doc.ID
}

// Documents returns the session documents in ingestion order.
func (s *Session) Documents() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, len(s.documents))
	copy(docs, s.documents)
	return docs
}

// Document returns the document with the given ID.
func (s *Session) Document(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id)
}

// Current returns the selected document, or ErrNoDocument.
func (s *Session) Current() (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentID == "" {
		return nil, ErrNoDocument
	}
	return s.find(s.currentID)
}

// Select makes the document with the given ID current.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(id); err != nil {
		return err
	}
	s.currentID = id
	return nil
}

// Remove drops a document from the session.
// Questions generated from it are discarded.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.documents {
		if d.ID != id {
			continue
		}
		s.documents = append(s.documents[:i], s.documents[i+1:]...)
		if s.currentID == id {
			s.currentID = ""
			if n := len(s.documents); n > 0 {
				s.currentID = s.documents[n-1].ID
			}
		}
		if s.questionDoc == id {
			s.questions = nil
			s.questionDoc = ""
			s.evaluations = make(map[int]Evaluation)
		}
		return nil
	}
	return fmt.Errorf("document %s: %w", id, ErrNotFound)
}

// AppendQA adds an entry to the history.
func (s *Session) AppendQA(entry QAEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
}

// History returns the QA history, oldest first.
func (s *Session) History() []QAEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]QAEntry, len(s.history))
	copy(out, s.history)
	return out
}

// SetQuestions replaces the challenge questions and clears their evaluations.
func (s *Session) SetQuestions(documentID string, questions []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = append([]Question(nil), questions...)
	s.questionDoc = documentID
	s.evaluations = make(map[int]Evaluation)
}

// Questions returns the current challenge questions.
func (s *Session) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Question returns challenge question i.
func (s *Session) Question(i int) (Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.questions) {
		return Question{}, fmt.Errorf("question %d: %w", i, ErrNotFound)
	}
	return s.questions[i], nil
}

// RecordEvaluation stores the evaluation of question i.
func (s *Session) RecordEvaluation(i int, eval Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("question %d: %w", i, ErrNotFound)
	}
	s.evaluations[i] = eval
	return nil
}

// Evaluation returns the stored evaluation of question i.
func (s *Session) Evaluation(i int) (Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eval, ok := s.evaluations[i]
	return eval, ok
}

// Clear resets the session to empty.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = nil
	s.currentID = ""
	s.history = nil
	s.questions = nil
	s.questionDoc = ""
	s.evaluations = make(map[int]Evaluation)
	s.generation++
}

// Generation counts how many times the session has been cleared.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// find looks up a document (caller must hold lock).
func (s *Session) find(id string) (*Document, error) {
	for _, d := range s.documents {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
}
