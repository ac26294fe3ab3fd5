package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptExt is the file extension of prompt templates.
const promptExt = ".tmpl"

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// questionGuidance describes what each question type asks of the reader.
var questionGuidance = map[domain.QuestionType]string{
	domain.QuestionFactual:     "The answer should be a fact stated directly in the text.",
	domain.QuestionAnalytical:  "The reader should have to break down how the argument or structure works.",
	domain.QuestionInferential: "The answer should be implied by the text but not stated outright.",
	domain.QuestionEvaluative:  "The reader should have to judge the strength or value of an idea in the text.",
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
func defaultPrompts() map[string]string {
	prompts := map[string]string{
		driven.PromptSummary: `Summarize the following text in {{.MaxWords}} words:

{{.Text}}`,

		driven.PromptQA: `Use the following context to answer the question.
Context: {{.Context}}
Question: {{.Question}}`,

		driven.PromptEvaluation: `Given the question: {{.Question}}
User's answer: {{.Answer}}
Reference context: {{.Context}}
Evaluate the answer for {{.Criteria}}. Provide a score out of 10, strengths, and areas for improvement.`,
	}

	for qt, guidance := range questionGuidance {
		prompts[driven.QuestionPromptName(qt.String())] = `Create a {{.Type}} question based on this context:
{{.Context}}

` + guidance + `
Reply with the question only.`
	}
	return prompts
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.docqa/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		configDir, err := ResolveDir("")
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(configDir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	defaults := defaultPrompts()

	s.initOnce.Do(func() { s.initialise(defaults) })
	if s.initErr != nil {
		if prompt, ok := defaults[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaults[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = domain.ErrNotFound
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise(defaults map[string]string) {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaults {
		path := filepath.Join(s.promptDir, name+promptExt)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(defaults); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+promptExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme(defaults map[string]string) error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# docqa Prompts\n\n")
	b.WriteString("This directory contains the prompt templates docqa sends to the language model.\n\n")
	b.WriteString("## Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s%s`\n", name, promptExt)
	}
	b.WriteString(`
## Customisation

Edit any file to change model behaviour. Delete a file to restore its default
on the next run. Changes take effect on the next command or after restarting
the TUI.

## Template Fields

Templates use Go text/template syntax:
`)
	b.WriteString("- `{{.Text}}` and `{{.MaxWords}}` in summary\n")
	b.WriteString("- `{{.Context}}` and `{{.Question}}` in qa\n")
	b.WriteString("- `{{.Context}}` and `{{.Type}}` in question_*\n")
	b.WriteString("- `{{.Question}}`, `{{.Answer}}`, `{{.Context}}` and `{{.Criteria}}` in evaluation\n")
	return os.WriteFile(path, []byte(b.String()), 0600)
}
