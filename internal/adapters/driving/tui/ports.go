// Package tui provides an interactive terminal user interface for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Documents ingests, lists and opens documents.
	Documents driving.DocumentService

	// QA answers questions over the index.
	QA driving.QAService

	// Challenge generates and scores comprehension questions.
	Challenge driving.ChallengeService

	// Settings reads and changes configuration. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	documents driving.DocumentService,
	qa driving.QAService,
	challenge driving.ChallengeService,
) *Ports {
	return &Ports{
		Documents: documents,
		QA:        qa,
		Challenge: challenge,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.QA == nil {
		return ErrMissingQAService
	}
	if p.Challenge == nil {
		return ErrMissingChallengeService
	}
	return nil
}
