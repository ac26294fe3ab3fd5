package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestExtractionService_Validate(t *testing.T) {
	settings := domain.DefaultAppSettings().Ingest
	settings.MaxFileSizeMB = 1
	svc := NewExtractionService(settings,
		&mockExtractor{formats: []domain.Format{domain.FormatText}},
		&mockExtractor{formats: []domain.Format{domain.FormatPDF, domain.FormatDOCX}},
	)

	tests := []struct {
		name    string
		upload  *domain.Upload
		kind    error
		message string
	}{
		{"nil upload", nil, domain.ErrValidation, "No file uploaded."},
		{
			"too large",
			&domain.Upload{Filename: "a.txt", Content: []byte("x"), Size: 2 * 1024 * 1024},
			domain.ErrValidation, "File size exceeds 1MB limit.",
		},
		{
			"unsupported format",
			&domain.Upload{Filename: "a.html", Content: []byte("x")},
			domain.ErrUnsupportedFormat, "Unsupported format. Supported: pdf, txt, docx",
		},
		{"empty content", &domain.Upload{Filename: "a.txt"}, nil, ""},
		{"valid by extension", &domain.Upload{Filename: "notes.TXT", Content: []byte("x")}, nil, ""},
		{"valid declared", &domain.Upload{Filename: "blob", Format: domain.FormatPDF, Content: []byte("x")}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.upload)
			if tt.kind == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.message, domain.UserMessage(err))
		})
	}
}

func TestExtractionService_ExtractEmptyContent(t *testing.T) {
	ext := &mockExtractor{formats: []domain.Format{domain.FormatText}, text: "never"}
	svc := NewExtractionService(domain.DefaultAppSettings().Ingest, ext)

	upload := &domain.Upload{Filename: "empty.txt", Content: []byte{}}
	require.NoError(t, svc.Validate(upload))

	_, err := svc.Extract(context.Background(), upload)
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)
	assert.Equal(t, domain.MsgNoTextExtracted, domain.UserMessage(err))
	assert.Zero(t, ext.calls)
}

func TestExtractionService_ValidateRespectsSupportedFormats(t *testing.T) {
	settings := domain.DefaultAppSettings().Ingest
	settings.SupportedFormats = []domain.Format{domain.FormatText}
	svc := NewExtractionService(settings,
		&mockExtractor{formats: []domain.Format{domain.FormatText, domain.FormatPDF}},
	)

	err := svc.Validate(&domain.Upload{Filename: "a.pdf", Content: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, "Unsupported format. Supported: txt", domain.UserMessage(err))
}

func TestExtractionService_ExtractPriorityAndFallback(t *testing.T) {
	primary := &mockExtractor{formats: []domain.Format{domain.FormatPDF}, priority: 50, err: domain.ErrExtraction}
	secondary := &mockExtractor{formats: []domain.Format{domain.FormatPDF}, priority: 5, text: "  recovered text \n"}
	svc := NewExtractionService(domain.DefaultAppSettings().Ingest, secondary, primary)

	text, err := svc.Extract(context.Background(), &domain.Upload{Filename: "a.pdf", Format: domain.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "recovered text", text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestExtractionService_ExtractEmpty(t *testing.T) {
	svc := NewExtractionService(domain.DefaultAppSettings().Ingest,
		&mockExtractor{formats: []domain.Format{domain.FormatText}, text: " \n\t "})

	_, err := svc.Extract(context.Background(), &domain.Upload{Filename: "a.txt", Format: domain.FormatText})
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)
	assert.Equal(t, domain.MsgNoTextExtracted, domain.UserMessage(err))
}

func TestExtractionService_ExtractAllFail(t *testing.T) {
	svc := NewExtractionService(domain.DefaultAppSettings().Ingest,
		&mockExtractor{formats: []domain.Format{domain.FormatText}, err: domain.ErrEncoding})

	_, err := svc.Extract(context.Background(), &domain.Upload{Filename: "a.txt", Format: domain.FormatText})
	assert.ErrorIs(t, err, domain.ErrEncoding)
	assert.NotErrorIs(t, err, domain.ErrNoTextExtracted)
}

func TestExtractionService_ExtractUnregistered(t *testing.T) {
	svc := NewExtractionService(domain.DefaultAppSettings().Ingest)
	assert.False(t, svc.Supports(domain.FormatDOCX))

	_, err := svc.Extract(context.Background(), &domain.Upload{Filename: "a.docx", Format: domain.FormatDOCX})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
