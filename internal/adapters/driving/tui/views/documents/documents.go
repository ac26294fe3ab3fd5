// Package documents provides the documents view for the TUI: the catalogue,
// ingestion from a file path, and a document's summary.
package documents

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
	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoDocumentService is returned when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

// Mode is what the view is currently showing.
type Mode int

const (
	ModeList Mode = iota
	ModeIngest
	ModeDetail
)

// View is the documents view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	path      *input.Field
	detail    viewport.Model
	statusbar *status.Bar

	documentService driving.DocumentService
	ctx             context.Context

	documents []domain.Document
	current   *domain.Document
	selected  int
	mode      Mode
	err       error
	width     int
	height    int
	ready     bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.DocumentsHelp())

	return &View{
		styles:          s,
		keymap:          km,
		path:            input.NewField(s, "Path", "/path/to/document.pdf", 1024),
		detail:          viewport.New(80, 16),
		statusbar:       bar,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.Document{},
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalogue.
func (v *View) Init() tea.Cmd {
	v.mode = ModeList
	v.path.Blur()
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := v.documentService.Catalogue(v.ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) ingest(path string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		upload, err := filesystem.LoadUpload(path)
		if err != nil {
			return messages.DocumentIngested{Path: path, Result: domain.IngestResult{
				Err:     err,
				Message: domain.MsgExtractionFailed,
			}}
		}
		return messages.DocumentIngested{Path: path, Result: v.documentService.Ingest(v.ctx, upload)}
	}
}

func (v *View) open(id string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentOpened{Err: ErrNoDocumentService}
		}
		doc, err := v.documentService.Open(v.ctx, id)
		return messages.DocumentOpened{Document: doc, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeIngest:
			return v.handleIngestKey(msg)
		case ModeDetail:
			return v.handleDetailKey(msg)
		default:
			return v.handleListKey(msg)
		}

	case messages.DocumentsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		return v, nil

	case messages.DocumentIngested:
		if !msg.Result.OK() {
			v.setError(errors.New(msg.Result.Message))
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage(msg.Result.Message)
		v.showDetail(msg.Result.Document)
		return v, v.loadDocuments()

	case messages.DocumentOpened:
		if msg.Err != nil {
			v.setError(errors.New(domain.UserMessage(msg.Err)))
			return v, nil
		}
		v.statusbar.Clear()
		v.showDetail(msg.Document)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
		}
	case "enter":
		if len(v.documents) == 0 {
			return v, nil
		}
		return v, tea.Batch(v.statusbar.Busy("Opening..."), v.open(v.documents[v.selected].ID))
	case "i":
		v.mode = ModeIngest
		v.path.Reset()
		return v, v.path.Focus()
	case "r":
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleIngestKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = ModeList
		v.path.Blur()
		return v, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(v.path.Value())
		if path == "" {
			return v, nil
		}
		v.mode = ModeList
		v.path.Blur()
		return v, tea.Batch(v.statusbar.Busy("Ingesting "+path+"..."), v.ingest(path))
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.mode = ModeList
		return v, nil
	}
	var cmd tea.Cmd
	v.detail, cmd = v.detail.Update(msg)
	return v, cmd
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) showDetail(doc *domain.Document) {
	if doc == nil {
		return
	}
	v.current = doc
	v.mode = ModeDetail
	v.detail.SetContent(v.renderDetail(doc))
	v.detail.GotoTop()
}

func (v *View) renderDetail(doc *domain.Document) string {
	var b strings.Builder
	meta := doc.Metadata

	b.WriteString(v.styles.Subtitle.Render(doc.Filename))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ID:      %s\n", doc.ID)
	fmt.Fprintf(&b, "Handle:  %s\n", doc.Handle)
	fmt.Fprintf(&b, "Type:    %s\n", meta.FileType)
	fmt.Fprintf(&b, "Size:    %d bytes\n", meta.FileSize)
	fmt.Fprintf(&b, "Chunks:  %d\n", meta.TotalChunks)
	fmt.Fprintf(&b, "Words:   %d\n", meta.WordCount)
	fmt.Fprintf(&b, "Chars:   %d\n\n", meta.CharCount)
	b.WriteString(v.styles.Subtitle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(doc.Summary))
	return b.String()
}

// View renders the documents view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Documents"), ""}

	switch v.mode {
	case ModeDetail:
		sections = append(sections, v.styles.Panel.Render(v.detail.View()))
	case ModeIngest:
		sections = append(sections, v.path.View(), "", v.styles.Help.Render("enter: ingest | esc: cancel"))
	default:
		sections = append(sections, v.renderList())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderList() string {
	if len(v.documents) == 0 {
		return v.styles.Muted.Render("No documents yet. Press i to ingest a pdf, docx or txt file.")
	}

	lines := make([]string, 0, len(v.documents))
	for i := range v.documents {
		doc := &v.documents[i]
		line := fmt.Sprintf("%-32s %-5s %4d chunks  %s",
			domain.Truncate(doc.Filename, 32), doc.Format, doc.Metadata.TotalChunks,
			doc.CreatedAt.Format(domain.TimestampLayout))
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+line))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.path.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.detail.Width = max(width-4, 20)
	v.detail.Height = max(height-8, 5)
}

// Documents returns the loaded catalogue.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Current returns the document most recently opened or ingested.
func (v *View) Current() *domain.Document {
	return v.current
}

// Mode returns the current mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Selected returns the selected list index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
