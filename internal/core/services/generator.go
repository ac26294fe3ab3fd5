package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/mo"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Input limits applied before prompting.
const (
	summaryInputLength  = 3000
	questionInputLength = 2000
)

var (
	thinkBlock    = regexp.MustCompile(`(?is)<think>.*?</think>`)
	listPrefix    = regexp.MustCompile(`^(?:\d+\s*[.):]|[-*•])\s*`)
	questionLabel = regexp.MustCompile(`(?i)^\**\s*question\s*\d*\s*[:.-]\s*\**\s*`)
	firstInteger  = regexp.MustCompile(`\d+`)
)

// promptData holds every field a prompt template may reference.
type promptData struct {
	MaxWords int
	Text     string
	Context  string
	Question string
	Answer   string
	Type     string
	Criteria string
}

// Generator wraps the language model behind the fixed prompt templates.
// It holds no per-call state; each operation returns a mo.Result whose
// error wraps domain.ErrGeneration.
type Generator struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	tokens   driven.TokenCounter
	settings domain.LLMSettings
}

// NewGenerator creates a generator. tokens may be nil to disable the context budget.
func NewGenerator(
	llm driven.LLMService,
	prompts driven.PromptStore,
	tokens driven.TokenCounter,
	settings domain.LLMSettings,
) *Generator {
	return &Generator{
		llm:      llm,
		prompts:  prompts,
		tokens:   tokens,
		settings: settings,
	}
}

// Summarize condenses the opening of text into roughly maxWords words.
func (g *Generator) Summarize(ctx context.Context, text string, maxWords int) mo.Result[string] {
	data := promptData{MaxWords: maxWords, Text: domain.Truncate(text, summaryInputLength)}
	out, err := g.run(ctx, driven.PromptSummary, &data, &data.Text)
	if err != nil {
		return mo.Err[string](err)
	}
	return mo.Ok(out)
}

// Answer answers question using only the retrieved chunks as context.
func (g *Generator) Answer(ctx context.Context, question string, retrieved []domain.RetrievedChunk) mo.Result[domain.Answer] {
	parts := make([]string, len(retrieved))
	for i, c := range retrieved {
		parts[i] = c.Content
	}

	data := promptData{Context: strings.Join(parts, "\n\n"), Question: question}
	out, err := g.run(ctx, driven.PromptQA, &data, &data.Context)
	if err != nil {
		return mo.Err[domain.Answer](err)
	}

	return mo.Ok(domain.Answer{
		Question: question,
		Text:     out,
		Sources:  domain.NewSources(retrieved),
	})
}

// GenerateQuestions produces questions from source. QuestionMixed makes one
// call per type in types and reports each outcome separately, so a failing
// type does not discard the others. Any other type makes exactly one call.
func (g *Generator) GenerateQuestions(
	ctx context.Context,
	source string,
	questionType domain.QuestionType,
	types []domain.QuestionType,
) []mo.Result[domain.Question] {
	if questionType != domain.QuestionMixed {
		types = []domain.QuestionType{questionType}
	}

	source = domain.Truncate(source, questionInputLength)
	results := make([]mo.Result[domain.Question], 0, len(types))
	for _, qt := range types {
		results = append(results, g.question(ctx, source, qt))
	}
	return results
}

func (g *Generator) question(ctx context.Context, source string, qt domain.QuestionType) mo.Result[domain.Question] {
	if !qt.IsValid() || qt == domain.QuestionMixed {
		return mo.Err[domain.Question](fmt.Errorf("question type %q: %w", qt, domain.ErrInvalidInput))
	}

	data := promptData{Context: source, Type: qt.String()}
	out, err := g.run(ctx, driven.QuestionPromptName(qt.String()), &data, &data.Context)
	if err != nil {
		return mo.Err[domain.Question](fmt.Errorf("%s question: %w", qt, err))
	}

	text := cleanQuestion(out)
	if text == "" {
		return mo.Err[domain.Question](fmt.Errorf("%s question: empty output: %w", qt, domain.ErrGeneration))
	}
	return mo.Ok(domain.NewQuestion(qt, text, source))
}

// Evaluate scores answer against question and the reference context.
func (g *Generator) Evaluate(ctx context.Context, question, answer, reference string) mo.Result[domain.Evaluation] {
	data := promptData{
		Question: question,
		Answer:   answer,
		Context:  reference,
		Criteria: strings.Join(domain.EvaluationCriteria(), ", "),
	}
	out, err := g.run(ctx, driven.PromptEvaluation, &data, &data.Context)
	if err != nil {
		return mo.Err[domain.Evaluation](err)
	}
	return mo.Ok(ParseEvaluation(out))
}

// run renders a prompt, fits it to the context budget by trimming *shrink,
// and calls the model under the configured timeout.
func (g *Generator) run(ctx context.Context, name string, data *promptData, shrink *string) (string, error) {
	defer logger.Timed("generate " + name)()

	tmpl, err := g.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w: %w", name, domain.ErrGeneration, err)
	}

	prompt, err := render(name, tmpl, *data)
	if err != nil {
		return "", err
	}
	if prompt, err = g.fit(name, tmpl, data, shrink, prompt); err != nil {
		return "", err
	}

	if g.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.settings.Timeout)
		defer cancel()
	}

	out, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   g.settings.MaxTokens,
		Temperature: g.settings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate %s: %w: %w", name, domain.ErrGeneration, err)
	}

	out = strings.TrimSpace(thinkBlock.ReplaceAllString(out, ""))
	if out == "" {
		return "", fmt.Errorf("generate %s: empty output: %w", name, domain.ErrGeneration)
	}
	return out, nil
}

// fit trims the variable field so the rendered prompt stays within the budget.
func (g *Generator) fit(name, tmpl string, data *promptData, shrink *string, prompt string) (string, error) {
	budget := g.settings.PromptBudget()
	if g.tokens == nil || budget <= 0 || shrink == nil {
		return prompt, nil
	}

	excess := g.tokens.Count(prompt) - budget
	if excess <= 0 {
		return prompt, nil
	}

	keep := g.tokens.Count(*shrink) - excess
	if keep < 0 {
		keep = 0
	}
	logger.Debug("prompt %s over budget by %d tokens, trimming input", name, excess)
	*shrink = g.tokens.Truncate(*shrink, keep)
	return render(name, tmpl, *data)
}

func render(name, tmpl string, data promptData) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w: %w", name, domain.ErrGeneration, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w: %w", name, domain.ErrGeneration, err)
	}
	return buf.String(), nil
}

// cleanQuestion reduces model output to a single question line.
func cleanQuestion(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = listPrefix.ReplaceAllString(line, "")
		line = questionLabel.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.Trim(line, "*"))
		if line != "" {
			return line
		}
	}
	return ""
}

// ParseEvaluation extracts a score and feedback from raw evaluation output.
// The last line mentioning a score or rating wins; its first integer is
// clamped to domain.MaxScore. Without one the score is domain.DefaultScore.
func ParseEvaluation(out string) domain.Evaluation {
	eval := domain.Evaluation{
		Score:    domain.DefaultScore,
		Feedback: domain.Truncate(out, domain.FeedbackLength),
	}

	var section *[]string
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if strings.Contains(lower, "score") || strings.Contains(lower, "rating") {
			if m := firstInteger.FindString(line); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					eval.Score = min(n, domain.MaxScore)
				}
			}
		}

		switch {
		case line == "":
			continue
		case isHeading(lower, "strength"):
			section = &eval.Strengths
			appendInline(section, line)
		case isHeading(lower, "improv"), isHeading(lower, "weakness"):
			section = &eval.Improvements
			appendInline(section, line)
		case section != nil && listPrefix.MatchString(line):
			if item := strings.TrimSpace(listPrefix.ReplaceAllString(line, "")); item != "" {
				*section = append(*section, item)
			}
		}
	}
	return eval
}

// isHeading reports whether line introduces a section containing word.
// Bulleted lines never count as headings.
func isHeading(lower, word string) bool {
	if listPrefix.MatchString(lower) {
		return false
	}
	head, _, _ := strings.Cut(lower, ":")
	return strings.Contains(head, word)
}

// appendInline keeps text written on the heading line after its colon.
func appendInline(section *[]string, line string) {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		if rest = strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), "*")); rest != "" {
			*section = append(*section, rest)
		}
	}
}

// collectQuestions splits per-type results into questions and a joined error.
func collectQuestions(results []mo.Result[domain.Question]) ([]domain.Question, error) {
	var (
		questions []domain.Question
		errs      []error
	)
	for _, r := range results {
		q, err := r.Get()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, errors.Join(errs...)
}
