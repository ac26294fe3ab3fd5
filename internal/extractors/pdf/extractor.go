// Package pdf extracts text from PDF documents.
//
// Pages are read with github.com/ledongthuc/pdf. When that yields no text,
// the whole document is retried with poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// pdftotextBin is the secondary extraction tool.
const pdftotextBin = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// pageSource is a PDF opened for page-by-page reading.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
	Close() error
}

// Extractor handles PDF documents.
type Extractor struct {
	runner   CommandRunner
	open     func(path string) (pageSource, error)
	lookPath func(file string) (string, error)
}

// New creates a PDF extractor that shells out to pdftotext for its fallback.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		runner:   runner,
		open:     openPages,
		lookPath: exec.LookPath,
	}
}

// CheckAvailable returns ErrPDFToolNotFound when pdftotext is missing.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextBin); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install the fallback tool.
func InstallInstructions() string {
	return `Scanned or unusual PDFs are retried with pdftotext (poppler).

  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract reads the document page by page, marking page boundaries.
// Unreadable pages are skipped. If nothing was read, pdftotext is tried
// on the whole document. The temporary copy is removed on every path.
func (e *Extractor) Extract(ctx context.Context, upload *domain.Upload) (string, error) {
	if upload == nil {
		return "", domain.ErrInvalidInput
	}

	path, cleanup, err := writeTemp(upload.Content)
	if err != nil {
		return "", fmt.Errorf("stage pdf: %w", err)
	}
	defer cleanup()

	text, primaryErr := e.extractPages(path)
	if primaryErr != nil {
		logger.Warn("pdf reader failed for %s: %v", upload.Filename, primaryErr)
	}
	if strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}

	text, secondaryErr := e.extractWithTool(ctx, path)
	if secondaryErr != nil {
		logger.Warn("pdftotext failed for %s: %v", upload.Filename, secondaryErr)
		if primaryErr != nil {
			return "", fmt.Errorf("pdf %s: %w", upload.Filename, domain.ErrExtraction)
		}
	}
	return strings.TrimSpace(text), nil
}

// extractPages reads every page with the primary reader.
func (e *Extractor) extractPages(path string) (string, error) {
	src, err := e.open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	var b strings.Builder
	for n := 1; n <= src.NumPage(); n++ {
		pageText, err := src.PageText(n)
		if err != nil {
			logger.Warn("could not extract text from page %d: %v", n, err)
			continue
		}
		appendPage(&b, n, pageText)
	}
	return b.String(), nil
}

// extractWithTool runs pdftotext over the whole file. Pages arrive separated by form feeds.
func (e *Extractor) extractWithTool(ctx context.Context, path string) (string, error) {
	if _, err := e.lookPath(pdftotextBin); err != nil {
		return "", ErrPDFToolNotFound
	}

	out, err := e.runner.Run(ctx, pdftotextBin, "-enc", "UTF-8", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	var b strings.Builder
	for i, page := range strings.Split(string(out), "\f") {
		appendPage(&b, i+1, page)
	}
	return b.String(), nil
}

// appendPage writes a page marker and the page text, skipping blank pages.
func appendPage(b *strings.Builder, n int, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(b, "\n\n--- Page %d ---\n\n", n)
	b.WriteString(text)
}

// writeTemp stages content on disk for readers that need a path.
func writeTemp(content []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(content); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return f.Name(), cleanup, nil
}
