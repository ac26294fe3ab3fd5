package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoDocument", ErrNoDocument},
		{"ErrValidation", ErrValidation},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrExtraction", ErrExtraction},
		{"ErrEncoding", ErrEncoding},
		{"ErrNoTextExtracted", ErrNoTextExtracted},
		{"ErrGeneration", ErrGeneration},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrIndexUnavailable", ErrIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrExtraction, ErrEncoding))
	assert.False(t, errors.Is(ErrValidation, ErrUnsupportedFormat))
	assert.False(t, errors.Is(ErrGeneration, ErrLLMUnavailable))
}

func TestUserError(t *testing.T) {
	err := NewUserError(ErrValidation, "File size exceeds 200MB limit.")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: File size exceeds 200MB limit.", err.Error())

	wrapped := fmt.Errorf("ingest: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, "File size exceeds 200MB limit.", UserMessage(wrapped))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"no text", fmt.Errorf("extract: %w", ErrNoTextExtracted), MsgNoTextExtracted},
		{"extraction", ErrExtraction, MsgExtractionFailed},
		{"encoding", fmt.Errorf("decode: %w", ErrEncoding), MsgExtractionFailed},
		{"index", ErrIndexUnavailable, MsgIndexUnavailable},
		{"no document", ErrNoDocument, MsgNoDocument},
		{"not found", ErrNotFound, "Document not found."},
		{"unknown", errors.New("disk on fire at /var/lib"), msgUnexpectedFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}
