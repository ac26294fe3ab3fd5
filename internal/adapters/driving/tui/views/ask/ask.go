// Package ask provides the question answering view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
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

// ErrNoQAService is returned when the view has no QA service.
var ErrNoQAService = errors.New("question answering service not available")

// View is the ask view: a question input above the latest answer and its sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	question  *input.Field
	answer    viewport.Model
	statusbar *status.Bar

	qaService driving.QAService
	ctx       context.Context
	k         int

	last   *domain.Answer
	asked  int
	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new ask view. k is the number of chunks to retrieve;
// zero uses the service default.
func NewView(s *styles.Styles, km *keymap.KeyMap, qaService driving.QAService, k int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.AskHelp())

	return &View{
		styles:    s,
		keymap:    km,
		question:  input.NewField(s, "Question", "What is this document about?", 500),
		answer:    viewport.New(80, 14),
		statusbar: bar,
		qaService: qaService,
		ctx:       context.Background(),
		k:         k,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the question input.
func (v *View) Init() tea.Cmd {
	return v.question.Focus()
}

func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.qaService == nil {
			return messages.AnswerReceived{Err: ErrNoQAService}
		}
		answer, err := v.qaService.Ask(v.ctx, question, v.k)
		return messages.AnswerReceived{Answer: answer, Err: err}
	}
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.question.Focused() {
			return v.handleInputKey(msg)
		}
		return v.handleAnswerKey(msg)

	case messages.AnswerReceived:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err))
			return v, v.question.Focus()
		}
		v.err = nil
		v.last = msg.Answer
		v.asked++
		v.statusbar.Clear()
		v.answer.SetContent(v.renderAnswer(msg.Answer))
		v.answer.GotoTop()
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.question.Blur()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyEnter:
		question := strings.TrimSpace(v.question.Value())
		if question == "" {
			return v, nil
		}
		v.question.Blur()
		return v, tea.Batch(v.statusbar.Busy("Searching the documents..."), v.ask(question))
	}

	var cmd tea.Cmd
	v.question, cmd = v.question.Update(msg)
	return v, cmd
}

func (v *View) handleAnswerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.question.Reset()
		return v, v.question.Focus()
	}

	var cmd tea.Cmd
	v.answer, cmd = v.answer.Update(msg)
	return v, cmd
}

func (v *View) renderAnswer(answer *domain.Answer) string {
	if answer == nil {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(max(v.width-8, 20))

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(answer.Question))
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(answer.Text))
	b.WriteString("\n")

	if len(answer.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Sources"))
		b.WriteString("\n")
	}
	for i, src := range answer.Sources {
		fmt.Fprintf(&b, "%d. %s (chunk %d, score %.2f)\n",
			i+1, src.Chunk.Filename(), src.Chunk.ChunkIndex(), src.Chunk.Score)
		b.WriteString(v.styles.Source.Render(wrap.Render(src.Preview)))
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Ask a question"), "", v.question.View(), ""}
	if v.last != nil {
		sections = append(sections, v.styles.Panel.Render(v.answer.View()))
	} else {
		sections = append(sections, v.styles.Muted.Render("Answers are grounded in the ingested documents."))
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.question.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.answer.Width = max(width-4, 20)
	v.answer.Height = max(height-10, 5)
	if v.last != nil {
		v.answer.SetContent(v.renderAnswer(v.last))
	}
}

// Answer returns the most recent answer.
func (v *View) Answer() *domain.Answer {
	return v.last
}

// Asked returns how many questions were answered in this view.
func (v *View) Asked() int {
	return v.asked
}

// Focused reports whether the question input has focus.
func (v *View) Focused() bool {
	return v.question.Focused()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
