// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDocuments lists documents and ingests new ones.
	ViewDocuments
	// ViewAsk is the question and answer view.
	ViewAsk
	// ViewChallenge generates and scores comprehension questions.
	ViewChallenge
	// ViewSettings shows the effective configuration.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDocuments:
		return "documents"
	case ViewAsk:
		return "ask"
	case ViewChallenge:
		return "challenge"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the document catalogue.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentIngested carries the outcome of ingesting one file.
type DocumentIngested struct {
	Path   string
	Result domain.IngestResult
}

// DocumentOpened signals a document was loaded into the session and selected.
type DocumentOpened struct {
	Document *domain.Document
	Err      error
}

// AnswerReceived carries an answer to a question.
type AnswerReceived struct {
	Answer *domain.Answer
	Err    error
}

// QuestionsGenerated carries generated challenge questions.
// Err may be set alongside partial results.
type QuestionsGenerated struct {
	Questions []domain.Question
	Err       error
}

// EvaluationReceived carries the evaluation of one answer.
type EvaluationReceived struct {
	Index      int
	Evaluation domain.Evaluation
	Err        error
}

// SettingsLoaded carries the effective settings.
type SettingsLoaded struct {
	Entries []driving.SettingEntry
	Err     error
}

// SettingsSaved reports the result of changing one setting.
type SettingsSaved struct {
	Key string
	Err error
}
