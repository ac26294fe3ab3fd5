// Package plaintext decodes text files, falling back through legacy encodings.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const utf8BOM = "\ufeff"

// Encoding is a named fallback decoder.
type Encoding struct {
	Name    string
	Decoder encoding.Encoding
}

// DefaultEncodings is the fallback order tried after UTF-8.
func DefaultEncodings() []Encoding {
	return []Encoding{
		{Name: "latin-1", Decoder: charmap.ISO8859_1},
		{Name: "windows-1252", Decoder: charmap.Windows1252},
		{Name: "iso-8859-15", Decoder: charmap.ISO8859_15},
	}
}

// Extractor handles plain text documents.
type Extractor struct {
	encodings []Encoding
}

// Option configures the extractor.
type Option func(*Extractor)

// WithEncodings replaces the fallback encoding list.
func WithEncodings(encodings ...Encoding) Option {
	return func(e *Extractor) {
		e.encodings = encodings
	}
}

// New creates a new plain text extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{encodings: DefaultEncodings()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract decodes the content as UTF-8, then tries each fallback encoding in order.
// Binary content fails with domain.ErrEncoding.
func (e *Extractor) Extract(_ context.Context, upload *domain.Upload) (string, error) {
	if upload == nil {
		return "", domain.ErrInvalidInput
	}

	text, err := e.decode(upload.Content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", upload.Filename, err)
	}
	return strings.TrimSpace(strings.TrimPrefix(text, utf8BOM)), nil
}

func (e *Extractor) decode(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}

	if enry.IsBinary(content) {
		return "", domain.ErrEncoding
	}

	for _, enc := range e.encodings {
		decoded, err := enc.Decoder.NewDecoder().Bytes(content)
		if err != nil || strings.ContainsRune(string(decoded), utf8.RuneError) {
			logger.Debug("decoding with %s failed", enc.Name)
			continue
		}
		logger.Info("text decoded using %s encoding", enc.Name)
		return string(decoded), nil
	}

	return "", domain.ErrEncoding
}
