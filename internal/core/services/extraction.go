package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// ExtractionService validates uploads and turns them into plain text.
// Several extractors may serve one format; they are tried in priority order
// until one yields text.
type ExtractionService struct {
	extractors map[domain.Format][]driven.Extractor
	settings   domain.IngestSettings
}

// NewExtractionService creates an extraction service with the given extractors.
func NewExtractionService(settings domain.IngestSettings, extractors ...driven.Extractor) *ExtractionService {
	s := &ExtractionService{
		extractors: make(map[domain.Format][]driven.Extractor),
		settings:   settings,
	}
	for _, e := range extractors {
		s.Register(e)
	}
	return s
}

// Register adds an extractor for each format it declares.
func (s *ExtractionService) Register(e driven.Extractor) {
	for _, f := range e.Formats() {
		list := append(s.extractors[f], e)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		s.extractors[f] = list
	}
}

// Supports returns true if an extractor is registered for the format.
func (s *ExtractionService) Supports(f domain.Format) bool {
	return len(s.extractors[f]) > 0
}

// Validate checks an upload against the ingest settings.
// Failures are *domain.UserError values carrying the message to show.
func (s *ExtractionService) Validate(upload *domain.Upload) error {
	if upload == nil {
		return domain.NewUserError(domain.ErrValidation, domain.MsgNoFile)
	}

	if limit := s.settings.MaxFileSize(); limit > 0 && upload.DeclaredSize() > limit {
		return domain.NewUserError(domain.ErrValidation,
			fmt.Sprintf("File size exceeds %dMB limit.", s.settings.MaxFileSizeMB))
	}

	if upload.Format == "" {
		upload.Format = domain.FormatFromFilename(upload.Filename)
	}
	if !s.accepts(upload.Format) {
		return domain.NewUserError(fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrUnsupportedFormat),
			"Unsupported format. Supported: "+s.supportedList())
	}
	return nil
}

// Extract returns the trimmed text of a validated upload.
// It returns domain.ErrNoTextExtracted when every extractor came back empty.
func (s *ExtractionService) Extract(ctx context.Context, upload *domain.Upload) (string, error) {
	defer logger.Timed("extract " + upload.Filename)()

	extractors := s.extractors[upload.Format]
	if len(extractors) == 0 {
		return "", fmt.Errorf("extract %s: %w", upload.Format, domain.ErrUnsupportedFormat)
	}
	if len(upload.Content) == 0 {
		return "", fmt.Errorf("extract %s: empty file: %w", upload.Filename, domain.ErrNoTextExtracted)
	}

	var errs []error
	for _, e := range extractors {
		text, err := e.Extract(ctx, upload)
		if err != nil {
			logger.Debug("extractor for %s failed on %s: %v", upload.Format, upload.Filename, err)
			errs = append(errs, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}

	if len(errs) == len(extractors) {
		return "", fmt.Errorf("extract %s: %w", upload.Filename, errors.Join(errs...))
	}
	return "", fmt.Errorf("extract %s: %w", upload.Filename, domain.ErrNoTextExtracted)
}

func (s *ExtractionService) accepts(f domain.Format) bool {
	if !f.IsValid() || !s.Supports(f) {
		return false
	}
	for _, allowed := range s.supported() {
		if allowed == f {
			return true
		}
	}
	return false
}

func (s *ExtractionService) supported() []domain.Format {
	if len(s.settings.SupportedFormats) == 0 {
		return domain.AllFormats()
	}
	return s.settings.SupportedFormats
}

func (s *ExtractionService) supportedList() string {
	formats := s.supported()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
