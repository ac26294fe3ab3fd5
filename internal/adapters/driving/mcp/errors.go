// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ingest documents, ask questions and run comprehension
// challenges against the local index.
package mcp

import "errors"

// Errors returned when a required port is missing.
var (
	ErrMissingDocumentService  = errors.New("mcp: document service is required")
	ErrMissingQAService        = errors.New("mcp: qa service is required")
	ErrMissingChallengeService = errors.New("mcp: challenge service is required")
)
