package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestFormatsAndPriority(t *testing.T) {
	e := New()
	assert.Equal(t, []domain.Format{domain.FormatDOCX}, e.Formats())
	assert.Equal(t, 50, e.Priority())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "single paragraph",
			body:     `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`,
			expected: "Hello World",
		},
		{
			name: "runs are concatenated and paragraphs joined by newline",
			body: `<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second line</w:t></w:r></w:p>`,
			expected: "Hello World\nSecond line",
		},
		{
			name: "empty and blank paragraphs are skipped",
			body: `<w:p><w:r><w:t>First</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>   </w:t></w:r></w:p>
<w:p><w:r><w:t>Last</w:t></w:r></w:p>`,
			expected: "First\nLast",
		},
		{
			name:     "no paragraphs",
			body:     ``,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload := &domain.Upload{
				Filename: "test.docx",
				Format:   domain.FormatDOCX,
				Content:  createTestDOCX(t, wrapBody(tt.body)),
			}

			text, err := New().Extract(context.Background(), upload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		upload  *domain.Upload
		wantErr error
	}{
		{
			name:    "nil upload",
			upload:  nil,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "not a zip",
			upload:  &domain.Upload{Content: []byte("plain bytes")},
			wantErr: domain.ErrExtraction,
		},
		{
			name:    "zip without document part",
			upload:  &domain.Upload{Content: createTestDOCX(t, "")},
			wantErr: domain.ErrExtraction,
		},
		{
			name:    "malformed xml",
			upload:  &domain.Upload{Content: createTestDOCX(t, "<w:document><w:body>")},
			wantErr: domain.ErrExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, text)
		})
	}
}
