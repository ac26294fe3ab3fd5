package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentHandle(t *testing.T) {
	assert.Equal(t, "doc_report.pdf_12_chunks", DocumentHandle("report.pdf", 12))
	assert.Equal(t, "doc_a.txt_0_chunks", DocumentHandle("a.txt", 0))
}

func TestNewDocumentMetadata(t *testing.T) {
	upload := &Upload{Filename: "notes.txt", Format: FormatText, Content: []byte("héllo world")}

	meta := NewDocumentMetadata(upload, "héllo brave world", 2)

	assert.Equal(t, "notes.txt", meta.Filename)
	assert.Equal(t, int64(len("héllo world")), meta.FileSize)
	assert.Equal(t, FormatText, meta.FileType)
	assert.Equal(t, 2, meta.TotalChunks)
	assert.Equal(t, 3, meta.WordCount)
	assert.Equal(t, 17, meta.CharCount)
}

func TestUpload_DeclaredSize(t *testing.T) {
	assert.Equal(t, int64(3), (&Upload{Content: []byte("abc")}).DeclaredSize())
	assert.Equal(t, int64(99), (&Upload{Content: []byte("abc"), Size: 99}).DeclaredSize())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"shorter", "abc", 10, "abc"},
		{"exact", "abc", 3, "abc"},
		{"cut", "abcdef", 4, "abcd"},
		{"runes", "日本語テキスト", 3, "日本語"},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.n))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "ab...", Preview("abcdef", 2))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
		valid    bool
	}{
		{"report.PDF", FormatPDF, true},
		{"thesis.docx", FormatDOCX, true},
		{"notes.txt", FormatText, true},
		{"notes.text", FormatText, true},
		{"image.png", Format("png"), false},
		{"README", Format(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			f := FormatFromFilename(tt.filename)
			assert.Equal(t, tt.expected, f)
			assert.Equal(t, tt.valid, f.IsValid())
		})
	}

	assert.Equal(t, "application/pdf", FormatPDF.MIMEType())
	assert.Equal(t, "text/plain", FormatText.MIMEType())
}

func TestRetrievedChunk_Accessors(t *testing.T) {
	c := RetrievedChunk{Metadata: map[string]any{MetaFilename: "a.txt", MetaChunkIndex: float64(2)}}
	assert.Equal(t, "a.txt", c.Filename())
	assert.Equal(t, 2, c.ChunkIndex())

	assert.Equal(t, -1, RetrievedChunk{}.ChunkIndex())
}

func TestNewSources(t *testing.T) {
	long := make([]rune, 400)
	for i := range long {
		long[i] = 'x'
	}
	sources := NewSources([]RetrievedChunk{{Content: "short"}, {Content: string(long)}})

	assert.Len(t, sources, 2)
	assert.Equal(t, "short", sources[0].Preview)
	assert.Equal(t, SourcePreviewLength+3, len([]rune(sources[1].Preview)))
	assert.Equal(t, string(long), sources[1].Chunk.Content)
}
