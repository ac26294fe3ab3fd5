package domain

import "strings"

// QuestionType is a category from the fixed question taxonomy.
type QuestionType string

// Question taxonomy.
const (
	// QuestionFactual asks for a fact stated in the text.
	QuestionFactual QuestionType = "factual"

	// QuestionAnalytical asks the reader to break down an argument or structure.
	QuestionAnalytical QuestionType = "analytical"

	// QuestionInferential asks for a conclusion implied but not stated.
	QuestionInferential QuestionType = "inferential"

	// QuestionEvaluative asks the reader to judge or assess.
	QuestionEvaluative QuestionType = "evaluative"

	// QuestionMixed requests one question of every type.
	QuestionMixed QuestionType = "mixed"
)

// IsValid returns true if the type is part of the taxonomy or is QuestionMixed.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionFactual, QuestionAnalytical, QuestionInferential, QuestionEvaluative, QuestionMixed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t QuestionType) String() string {
	return string(t)
}

// Title returns the capitalised type name for display.
func (t QuestionType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// QuestionTaxonomy returns the fixed set of question types in generation order.
func QuestionTaxonomy() []QuestionType {
	return []QuestionType{
		QuestionFactual,
		QuestionAnalytical,
		QuestionInferential,
		QuestionEvaluative,
	}
}

// Difficulty is a label derived from question length.
type Difficulty string

// Difficulty labels.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Word-count thresholds for difficulty.
const (
	easyWordLimit   = 10
	mediumWordLimit = 20
)

// DifficultyFor derives the difficulty of a question from its word count.
func DifficultyFor(question string) Difficulty {
	words := len(strings.Fields(question))
	switch {
	case words < easyWordLimit:
		return DifficultyEasy
	case words < mediumWordLimit:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// SourceContextLength is how much of the generation context a question keeps.
const SourceContextLength = 500

// Question is a generated challenge question.
type Question struct {
	Type          QuestionType `json:"type" yaml:"type"`
	Text          string       `json:"question" yaml:"question"`
	Difficulty    Difficulty   `json:"difficulty" yaml:"difficulty"`
	SourceContext string       `json:"source_context" yaml:"source_context"`
}

// NewQuestion builds a question, deriving difficulty and the stored context.
func NewQuestion(qt QuestionType, text, context string) Question {
	return Question{
		Type:          qt,
		Text:          text,
		Difficulty:    DifficultyFor(text),
		SourceContext: Truncate(context, SourceContextLength),
	}
}
