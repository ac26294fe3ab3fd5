package pdf

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

type mockRunner struct {
	output []byte
	err    error
	called bool
	args   []string
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.called = true
	m.args = args
	return m.output, m.err
}

type fakePages struct {
	pages  []string
	errs   map[int]error
	closed bool
}

func (f *fakePages) NumPage() int { return len(f.pages) }

func (f *fakePages) PageText(n int) (string, error) {
	if err := f.errs[n]; err != nil {
		return "", err
	}
	return f.pages[n-1], nil
}

func (f *fakePages) Close() error {
	f.closed = true
	return nil
}

func newTestExtractor(src *fakePages, openErr error, runner *mockRunner, toolFound bool) *Extractor {
	e := NewWithRunner(runner)
	e.open = func(string) (pageSource, error) {
		if openErr != nil {
			return nil, openErr
		}
		return src, nil
	}
	e.lookPath = func(string) (string, error) {
		if !toolFound {
			return "", errors.New("not found")
		}
		return "/usr/bin/pdftotext", nil
	}
	return e
}

func testUpload() *domain.Upload {
	return &domain.Upload{Filename: "report.pdf", Format: domain.FormatPDF, Content: []byte("%PDF-1.4"), Size: 8}
}

func TestExtractor_Formats(t *testing.T) {
	e := New()
	assert.Equal(t, []domain.Format{domain.FormatPDF}, e.Formats())
	assert.Equal(t, 50, e.Priority())
}

func TestExtractor_PageMarkers(t *testing.T) {
	src := &fakePages{pages: []string{"First page.", "Second page."}}
	runner := &mockRunner{}
	e := newTestExtractor(src, nil, runner, true)

	text, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\n\nFirst page.\n\n--- Page 2 ---\n\nSecond page.", text)
	assert.False(t, runner.called)
	assert.True(t, src.closed)
}

func TestExtractor_SkipsFailingAndBlankPages(t *testing.T) {
	src := &fakePages{
		pages: []string{"One", "", "Three"},
		errs:  map[int]error{3: errors.New("bad stream")},
	}
	e := newTestExtractor(src, nil, &mockRunner{}, true)

	text, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\n\nOne", text)
}

func TestExtractor_FallsBackToTool(t *testing.T) {
	src := &fakePages{pages: []string{"  ", ""}}
	runner := &mockRunner{output: []byte("alpha\fbeta\f")}
	e := newTestExtractor(src, nil, runner, true)

	text, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	assert.True(t, runner.called)
	assert.Equal(t, "--- Page 1 ---\n\nalpha\n\n--- Page 2 ---\n\nbeta", text)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestExtractor_ReaderFailsToolSucceeds(t *testing.T) {
	runner := &mockRunner{output: []byte("recovered")}
	e := newTestExtractor(nil, errors.New("corrupt xref"), runner, true)

	text, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\n\nrecovered", text)
}

func TestExtractor_BothFail(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	e := newTestExtractor(nil, errors.New("corrupt xref"), runner, true)

	_, err := e.Extract(context.Background(), testUpload())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractor_ToolMissingAfterEmptyRead(t *testing.T) {
	src := &fakePages{pages: []string{""}}
	runner := &mockRunner{}
	e := newTestExtractor(src, nil, runner, false)

	text, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, runner.called)
}

func TestExtractor_NilUpload(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractor_RemovesTempFile(t *testing.T) {
	var staged string
	e := NewWithRunner(&mockRunner{})
	e.open = func(path string) (pageSource, error) {
		staged = path
		_, err := os.Stat(path)
		require.NoError(t, err)
		return &fakePages{pages: []string{"text"}}, nil
	}

	_, err := e.Extract(context.Background(), testUpload())
	require.NoError(t, err)
	require.NotEmpty(t, staged)
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

func TestInstallInstructions(t *testing.T) {
	assert.Contains(t, InstallInstructions(), "poppler")
}
