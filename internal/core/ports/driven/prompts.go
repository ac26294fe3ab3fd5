package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
// Templates use text/template syntax with the fields documented on each name.
const (
	// PromptSummary summarises document text. Fields: .MaxWords, .Text.
	PromptSummary = "summary"

	// PromptQA answers a question from retrieved context. Fields: .Context, .Question.
	PromptQA = "qa"

	// PromptEvaluation scores a user's answer. Fields: .Question, .Answer, .Context, .Criteria.
	PromptEvaluation = "evaluation"

	// promptQuestionPrefix prefixes the per-type question prompts. Fields: .Context.
	promptQuestionPrefix = "question_"
)

// QuestionPromptName returns the prompt name for a question type.
func QuestionPromptName(questionType string) string {
	return promptQuestionPrefix + questionType
}
