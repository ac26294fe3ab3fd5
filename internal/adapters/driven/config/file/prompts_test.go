package file

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docqa", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptSummary)
	require.NoError(t, err)

	files := []string{
		"summary.tmpl",
		"qa.tmpl",
		"evaluation.tmpl",
		"question_factual.tmpl",
		"question_analytical.tmpl",
		"question_inferential.tmpl",
		"question_evaluative.tmpl",
		"README.md",
	}
	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_DefaultsRender(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	data := map[string]any{
		"MaxWords": 150, "Text": "TEXT", "Context": "CTX",
		"Question": "Q?", "Answer": "A.", "Type": "factual", "Criteria": "accuracy",
	}
	names := []string{driven.PromptSummary, driven.PromptQA, driven.PromptEvaluation}
	for _, qt := range domain.QuestionTaxonomy() {
		names = append(names, driven.QuestionPromptName(qt.String()))
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			text, err := store.Load(name)
			require.NoError(t, err)

			tmpl, err := template.New(name).Parse(text)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, tmpl.Execute(&buf, data))
			assert.NotContains(t, buf.String(), "{{")
		})
	}
}

func TestPromptStore_Load_DefaultWording(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	summary, err := store.Load(driven.PromptSummary)
	require.NoError(t, err)
	assert.Contains(t, summary, "Summarize the following text in {{.MaxWords}} words:")

	qa, err := store.Load(driven.PromptQA)
	require.NoError(t, err)
	assert.Contains(t, qa, "Use the following context to answer the question.")

	eval, err := store.Load(driven.PromptEvaluation)
	require.NoError(t, err)
	assert.Contains(t, eval, "Provide a score out of 10")
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Briefly: {{.Text}}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.tmpl"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptSummary)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptQA)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.tmpl"), []byte("   \n"), 0600))
	store.Reload()

	prompt, err := store.Load(driven.PromptSummary)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Summarize the following text")
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent")
	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptQA)
	require.NoError(t, err)

	modified := "New QA: {{.Question}}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.tmpl"), []byte(modified), 0600))

	cached, err := store.Load(driven.PromptQA)
	require.NoError(t, err)
	assert.NotEqual(t, modified, cached)

	store.Reload()
	prompt, err := store.Load(driven.PromptQA)
	require.NoError(t, err)
	assert.Equal(t, modified, prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	prompts := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptEvaluation)
			if err == nil {
				prompts <- prompt
			}
		}()
	}
	wg.Wait()
	close(prompts)

	var first string
	count := 0
	for prompt := range prompts {
		count++
		if first == "" {
			first = prompt
			continue
		}
		assert.Equal(t, first, prompt)
	}
	assert.Equal(t, goroutines, count)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := "pre-existing custom prompt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.tmpl"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, _ = store.Load(driven.PromptSummary)

	data, err := os.ReadFile(filepath.Join(dir, "qa.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.tmpl"), []byte("\n\n  prompt content  \n\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptQA)
	require.NoError(t, err)
	assert.Equal(t, "prompt content", prompt)
}
