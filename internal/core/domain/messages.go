package domain

import "errors"

// Fixed user-facing messages.
const (
	MsgNoFile            = "No file uploaded."
	MsgNoTextExtracted   = "No text could be extracted from the document."
	MsgSummaryFallback   = "Summary generation unavailable."
	MsgAnswerFallback    = "Sorry, I couldn't generate an answer right now."
	MsgEvaluationFailed  = "Evaluation temporarily unavailable."
	MsgExtractionFailed  = "Could not read the document."
	MsgIndexUnavailable  = "The document index is unavailable."
	MsgNoDocument        = "Upload or select a document first."
	MsgQuestionsFailed   = "Could not generate questions right now."
	msgUnexpectedFailure = "Something went wrong. Please try again."
)

// UserError is an error carrying a short message safe to show to the user.
type UserError struct {
	// Kind is the sentinel the error matches with errors.Is.
	Kind error

	// Message is the user-safe text.
	Message string
}

// NewUserError creates an error of the given kind with a user-safe message.
func NewUserError(kind error, message string) *UserError {
	return &UserError{Kind: kind, Message: message}
}

func (e *UserError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

// Unwrap exposes Kind to errors.Is.
func (e *UserError) Unwrap() error {
	return e.Kind
}

// UserMessage maps an error to a short message for display.
// Internal detail is never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}

	switch {
	case errors.Is(err, ErrNoTextExtracted):
		return MsgNoTextExtracted
	case errors.Is(err, ErrExtraction), errors.Is(err, ErrEncoding):
		return MsgExtractionFailed
	case errors.Is(err, ErrIndexUnavailable):
		return MsgIndexUnavailable
	case errors.Is(err, ErrNoDocument):
		return MsgNoDocument
	case errors.Is(err, ErrNotFound):
		return "Document not found."
	case errors.Is(err, ErrLLMUnavailable):
		return "The language model is unavailable."
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "The embedding model is unavailable."
	default:
		return msgUnexpectedFailure
	}
}
