// Package settings provides the settings view for the TUI.
package settings

import (
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
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoSettingsService is returned when the view has no settings service.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists the effective settings and edits one at a time.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	value     *input.Field
	statusbar *status.Bar

	settingsService driving.SettingsService

	entries  []driving.SettingEntry
	selected int
	editing  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		value:           input.NewField(s, "Value", "", 512),
		statusbar:       status.NewBar(s, km),
		settingsService: settingsService,
		width:           80,
		height:          24,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		entries, err := v.settingsService.Entries()
		return messages.SettingsLoaded{Entries: entries, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleListKey(msg)

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.entries = msg.Entries
		if v.selected >= len(v.entries) {
			v.selected = max(len(v.entries)-1, 0)
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage(fmt.Sprintf("Saved %s. Restart to apply.", msg.Key))
		return v, v.loadSettings()
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
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
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case keymap.Matches(keyStr, v.keymap.Reload):
		return v, v.loadSettings()
	case keymap.Matches(keyStr, v.keymap.Select):
		if len(v.entries) == 0 {
			return v, nil
		}
		entry := v.entries[v.selected]
		v.editing = true
		v.value.SetLabel(entry.Key)
		v.value.Reset()
		if !isSecret(entry.Key) {
			v.value.SetValue(entry.Value)
		}
		return v, v.value.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.value.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.value.Blur()
		return v, v.save(v.entries[v.selected].Key, strings.TrimSpace(v.value.Value()))
	}

	var cmd tea.Cmd
	v.value, cmd = v.value.Update(msg)
	return v, cmd
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, "api_key")
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Settings"), "", v.renderEntries()}
	if v.editing {
		sections = append(sections, "", v.value.View(), v.styles.Help.Render("enter: save | esc: cancel"))
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderEntries() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("No settings loaded.")
	}

	keyWidth := 0
	for _, e := range v.entries {
		keyWidth = max(keyWidth, len(e.Key))
	}

	lines := make([]string, 0, len(v.entries))
	for i, e := range v.entries {
		value := e.Value
		if value == "" {
			value = v.styles.Muted.Render("(not set)")
		}
		line := fmt.Sprintf("%-*s  %s", keyWidth, e.Key, value)
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
	v.value.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset leaves edit mode and clears the status.
func (v *View) Reset() {
	v.editing = false
	v.value.Blur()
	v.statusbar.Clear()
}

// Entries returns the loaded settings.
func (v *View) Entries() []driving.SettingEntry {
	return v.entries
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
