package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid document URI", uri: "docqa://documents/doc-456", expected: "doc-456"},
		{name: "invalid prefix", uri: "file://documents/doc-456", expected: ""},
		{name: "list URI", uri: "docqa://documents", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalogue", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())
		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("lists documents", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{documents: []domain.Document{sampleDocument()}}
		server := newTestServer(t, ports)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"id": "doc-1"`)
		assert.NotContains(t, result.Contents[0].Text, "A short summary.")
	})

	t.Run("catalogue failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{err: errors.New("database error")}
		server := newTestServer(t, ports)

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))
		require.Error(t, err)
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()
	ports := newTestPorts()
	ports.Documents = &mockDocumentService{documents: []domain.Document{sampleDocument()}}
	server := newTestServer(t, ports)

	result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://documents/doc-1"))
	require.NoError(t, err)
	text := result.Contents[0].Text
	assert.Contains(t, text, "A short summary.")
	assert.Contains(t, text, `"word_count": 40`)

	_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://documents/missing"))
	require.Error(t, err)

	_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://other"))
	require.Error(t, err)
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()
	ports := newTestPorts()
	ports.QA = &mockQAService{history: []domain.QAEntry{
		{Question: "What?", Answer: "That.", Sources: 3, Timestamp: "2024-03-01 12:00:00"},
	}}
	server := newTestServer(t, ports)

	result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("docqa://history"))
	require.NoError(t, err)
	assert.Contains(t, result.Contents[0].Text, `"question": "What?"`)
	assert.Contains(t, result.Contents[0].Text, `"sources": 3`)
}
