package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Document represents an ingested document.
// It is created once by the ingestion pipeline and never mutated afterwards.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload name.
	Filename string

	// Format is the format the text was extracted from.
	Format Format

	// RawText is the full extracted text before chunking.
	RawText string

	// Summary is the generated summary, or the fixed fallback message.
	Summary string

	// Chunks are the ordered segments of RawText.
	Chunks []Chunk

	// Metadata holds the size and count statistics.
	Metadata DocumentMetadata

	// Handle is the opaque identifier returned by the embedding index.
	Handle string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// DocumentMetadata holds statistics about an ingested document.
type DocumentMetadata struct {
	Filename    string `json:"filename" yaml:"filename"`
	FileSize    int64  `json:"file_size" yaml:"file_size"`
	FileType    Format `json:"file_type" yaml:"file_type"`
	TotalChunks int    `json:"total_chunks" yaml:"total_chunks"`
	WordCount   int    `json:"word_count" yaml:"word_count"`
	CharCount   int    `json:"char_count" yaml:"char_count"`
}

// NewDocumentMetadata computes metadata for extracted text.
func NewDocumentMetadata(upload *Upload, text string, totalChunks int) DocumentMetadata {
	return DocumentMetadata{
		Filename:    upload.Filename,
		FileSize:    upload.DeclaredSize(),
		FileType:    upload.Format,
		TotalChunks: totalChunks,
		WordCount:   len(strings.Fields(text)),
		CharCount:   utf8.RuneCountInString(text),
	}
}

// Chunk represents a retrievable unit within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the ordinal position within the document, contiguous from zero.
	Index int

	// Content is the text content of this chunk.
	Content string

	// Overlap is the number of leading runes repeated from the previous chunk.
	Overlap int
}

// DocumentHandle builds the opaque handle for an indexed document.
func DocumentHandle(filename string, chunks int) string {
	return fmt.Sprintf("doc_%s_%d_chunks", filename, chunks)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Preview returns the first n runes of s followed by "..." when s was cut.
func Preview(s string, n int) string {
	cut := Truncate(s, n)
	if len(cut) < len(s) {
		return cut + "..."
	}
	return cut
}
