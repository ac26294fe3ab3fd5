// Package challenge provides the comprehension challenge view for the TUI:
// question generation for the current document and scored answers.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoChallengeService is returned when the view has no challenge service.
var ErrNoChallengeService = errors.New("challenge service not available")

// Mode is what the view is currently accepting.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeAnswer
)

// View is the challenge view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	response  *input.Field
	statusbar *status.Bar

	challengeService driving.ChallengeService
	ctx              context.Context

	types       []domain.QuestionType
	typeIdx     int
	document    string
	questions   []domain.Question
	evaluations map[int]domain.Evaluation
	selected    int
	mode        Mode
	err         error
	width       int
	height      int
	ready       bool
}

// NewView creates a new challenge view.
func NewView(s *styles.Styles, km *keymap.KeyMap, challengeService driving.ChallengeService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.ChallengeHelp())

	return &View{
		styles:           s,
		keymap:           km,
		response:         input.NewField(s, "Answer", "Your answer", 2000),
		statusbar:        bar,
		challengeService: challengeService,
		ctx:              context.Background(),
		types:            append([]domain.QuestionType{domain.QuestionMixed}, domain.QuestionTaxonomy()...),
		evaluations:      make(map[int]domain.Evaluation),
		width:            80,
		height:           24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init restores questions already held in the session.
func (v *View) Init() tea.Cmd {
	v.mode = ModeBrowse
	v.response.Blur()
	if v.challengeService != nil && len(v.questions) == 0 {
		v.questions = v.challengeService.Questions()
	}
	return nil
}

// SetDocument records the document questions are generated from.
// Questions for a previous document are discarded.
func (v *View) SetDocument(doc *domain.Document) {
	if doc == nil || doc.ID == v.document {
		return
	}
	v.document = doc.ID
	v.questions = nil
	v.evaluations = make(map[int]domain.Evaluation)
	v.selected = 0
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("Document: " + doc.Filename)
}

func (v *View) generate() tea.Cmd {
	documentID := v.document
	questionType := v.Type()
	return func() tea.Msg {
		if v.challengeService == nil {
			return messages.QuestionsGenerated{Err: ErrNoChallengeService}
		}
		questions, err := v.challengeService.Generate(v.ctx, documentID, questionType)
		return messages.QuestionsGenerated{Questions: questions, Err: err}
	}
}

func (v *View) evaluate(i int, answer string) tea.Cmd {
	return func() tea.Msg {
		if v.challengeService == nil {
			return messages.EvaluationReceived{Index: i, Err: ErrNoChallengeService}
		}
		eval, err := v.challengeService.Evaluate(v.ctx, i, answer)
		return messages.EvaluationReceived{Index: i, Evaluation: eval, Err: err}
	}
}

// Update handles messages for the challenge view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.mode == ModeAnswer {
			return v.handleAnswerKey(msg)
		}
		return v.handleBrowseKey(msg)

	case messages.QuestionsGenerated:
		if len(msg.Questions) == 0 {
			v.setError(msg.Err, questionsMessage(msg.Err))
			return v, nil
		}
		v.questions = msg.Questions
		v.evaluations = make(map[int]domain.Evaluation)
		v.selected = 0
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(fmt.Sprintf("%d questions, some types failed.", len(msg.Questions)))
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage(fmt.Sprintf("Generated %d questions.", len(msg.Questions)))
		return v, nil

	case messages.EvaluationReceived:
		if msg.Err != nil {
			v.setError(msg.Err, domain.UserMessage(msg.Err))
			return v, nil
		}
		v.err = nil
		v.evaluations[msg.Index] = msg.Evaluation
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage(fmt.Sprintf("Scored %d/%d.", msg.Evaluation.Score, domain.MaxScore))
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func questionsMessage(err error) string {
	var ue *domain.UserError
	if errors.Is(err, domain.ErrNoDocument) || errors.Is(err, domain.ErrNotFound) || errors.As(err, &ue) {
		return domain.UserMessage(err)
	}
	return domain.MsgQuestionsFailed
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.questions)-1 {
			v.selected++
		}
	case keymap.Matches(keyStr, v.keymap.CycleType):
		v.typeIdx = (v.typeIdx + 1) % len(v.types)
	case keymap.Matches(keyStr, v.keymap.Generate):
		return v, tea.Batch(
			v.statusbar.Busy(fmt.Sprintf("Generating %s questions...", v.Type())),
			v.generate(),
		)
	case keymap.Matches(keyStr, v.keymap.Answer):
		if len(v.questions) == 0 {
			return v, nil
		}
		v.mode = ModeAnswer
		v.response.Reset()
		v.response.SetLabel(fmt.Sprintf("Answer %d", v.selected+1))
		return v, v.response.Focus()
	}
	return v, nil
}

func (v *View) handleAnswerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = ModeBrowse
		v.response.Blur()
		return v, nil
	case tea.KeyEnter:
		answer := strings.TrimSpace(v.response.Value())
		if answer == "" {
			return v, nil
		}
		v.mode = ModeBrowse
		v.response.Blur()
		return v, tea.Batch(v.statusbar.Busy("Evaluating..."), v.evaluate(v.selected, answer))
	}

	var cmd tea.Cmd
	v.response, cmd = v.response.Update(msg)
	return v, cmd
}

func (v *View) setError(err error, message string) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(message)
}

// View renders the challenge view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Challenge me"),
		v.styles.Subtitle.Render("Type: " + v.Type().Title()),
		"",
		v.renderQuestions(),
	}
	if eval, ok := v.evaluations[v.selected]; ok {
		sections = append(sections, "", v.styles.Panel.Render(v.renderEvaluation(eval)))
	}
	if v.mode == ModeAnswer {
		sections = append(sections, "", v.response.View())
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderQuestions() string {
	if len(v.questions) == 0 {
		return v.styles.Muted.Render("No questions yet. Press t to pick a type and g to generate.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-6, 20))
	lines := make([]string, 0, len(v.questions))
	for i, q := range v.questions {
		marker := "  "
		style := v.styles.Normal
		if i == v.selected {
			marker = "> "
			style = v.styles.Selected
		}
		label := fmt.Sprintf("%d. [%s, %s]", i+1, q.Type.Title(), q.Difficulty)
		if eval, ok := v.evaluations[i]; ok {
			label += " " + v.styles.Score(eval.Score).Render(fmt.Sprintf("%d/%d", eval.Score, domain.MaxScore))
		}
		lines = append(lines, style.Render(marker+label), wrap.Render("   "+q.Text))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderEvaluation(eval domain.Evaluation) string {
	var b strings.Builder
	b.WriteString(v.styles.Score(eval.Score).Render(fmt.Sprintf("Score: %d/%d", eval.Score, domain.MaxScore)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(v.width-8, 20)).Render(eval.Feedback))
	writeList(&b, v.styles.Success.Render("Strengths"), eval.Strengths)
	writeList(&b, v.styles.Warning.Render("Improvements"), eval.Improvements)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(heading)
	for _, item := range items {
		b.WriteString("\n  - ")
		b.WriteString(item)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.response.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Type returns the question type used for the next generation.
func (v *View) Type() domain.QuestionType {
	return v.types[v.typeIdx]
}

// Questions returns the questions shown.
func (v *View) Questions() []domain.Question {
	return v.questions
}

// Evaluation returns the evaluation for question i, if any.
func (v *View) Evaluation(i int) (domain.Evaluation, bool) {
	eval, ok := v.evaluations[i]
	return eval, ok
}

// Selected returns the selected question index.
func (v *View) Selected() int {
	return v.selected
}

// Mode returns the current mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
