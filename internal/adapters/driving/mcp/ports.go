package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents ingests and lists documents.
	Documents driving.DocumentService

	// QA answers questions from the index.
	QA driving.QAService

	// Challenge generates and evaluates comprehension questions.
	Challenge driving.ChallengeService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Documents == nil:
		return ErrMissingDocumentService
	case p.QA == nil:
		return ErrMissingQAService
	case p.Challenge == nil:
		return ErrMissingChallengeService
	}
	return nil
}
