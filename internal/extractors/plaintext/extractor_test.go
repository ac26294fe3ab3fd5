package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestFormatsAndPriority(t *testing.T) {
	e := New()
	assert.Equal(t, []domain.Format{domain.FormatText}, e.Formats())
	assert.Equal(t, 50, e.Priority())
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "utf-8",
			content:  []byte("This is plain text content."),
			expected: "This is plain text content.",
		},
		{
			name:     "utf-8 multibyte",
			content:  []byte("naïve café 日本"),
			expected: "naïve café 日本",
		},
		{
			name:     "surrounding whitespace trimmed",
			content:  []byte("\n\n  body  \n"),
			expected: "body",
		},
		{
			name:     "byte order mark stripped",
			content:  []byte("\xef\xbb\xbfwith bom"),
			expected: "with bom",
		},
		{
			name:     "latin-1 fallback",
			content:  []byte("caf\xe9 cr\xe8me"),
			expected: "café crème",
		},
		{
			name:     "empty",
			content:  []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload := &domain.Upload{Filename: "doc.txt", Format: domain.FormatText, Content: tt.content}

			text, err := New().Extract(context.Background(), upload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtract_FallbackOrder(t *testing.T) {
	// 0x80 is the euro sign in windows-1252 and a C1 control in latin-1.
	upload := &domain.Upload{Content: []byte("price \x80 5")}

	e := New(WithEncodings(Encoding{Name: "windows-1252", Decoder: charmap.Windows1252}))
	text, err := e.Extract(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, "price € 5", text)
}

func TestExtract_Errors(t *testing.T) {
	t.Run("nil upload", func(t *testing.T) {
		_, err := New().Extract(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("binary content", func(t *testing.T) {
		upload := &domain.Upload{Content: []byte{0x89, 'P', 'N', 'G', 0x00, 0x00, 0xff, 0xfe}}
		_, err := New().Extract(context.Background(), upload)
		assert.ErrorIs(t, err, domain.ErrEncoding)
	})

	t.Run("utf-16 is not decoded", func(t *testing.T) {
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("hello"))
		require.NoError(t, err)

		_, err = New().Extract(context.Background(), &domain.Upload{Content: encoded})
		assert.ErrorIs(t, err, domain.ErrEncoding)
	})

	t.Run("fallback list exhausted", func(t *testing.T) {
		upload := &domain.Upload{Content: []byte("caf\xe9")}
		_, err := New(WithEncodings()).Extract(context.Background(), upload)
		assert.ErrorIs(t, err, domain.ErrEncoding)
	})
}
