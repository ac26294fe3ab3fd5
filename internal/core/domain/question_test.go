package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		name     string
		words    int
		expected Difficulty
	}{
		{"empty", 0, DifficultyEasy},
		{"nine words", 9, DifficultyEasy},
		{"ten words", 10, DifficultyMedium},
		{"nineteen words", 19, DifficultyMedium},
		{"twenty words", 20, DifficultyHard},
		{"many words", 45, DifficultyHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := strings.TrimSpace(strings.Repeat("word ", tt.words))
			assert.Equal(t, tt.expected, DifficultyFor(q))
		})
	}
}

func TestQuestionType(t *testing.T) {
	for _, qt := range QuestionTaxonomy() {
		assert.True(t, qt.IsValid())
	}
	assert.True(t, QuestionMixed.IsValid())
	assert.False(t, QuestionType("rhetorical").IsValid())
	assert.Equal(t, "Inferential", QuestionInferential.Title())
	assert.Equal(t, "", QuestionType("").Title())
	assert.Equal(t, []QuestionType{
		QuestionFactual, QuestionAnalytical, QuestionInferential, QuestionEvaluative,
	}, QuestionTaxonomy())
}

func TestNewQuestion(t *testing.T) {
	context := strings.Repeat("c", 800)

	q := NewQuestion(QuestionFactual, "What is the capital of France?", context)

	assert.Equal(t, QuestionFactual, q.Type)
	assert.Equal(t, DifficultyEasy, q.Difficulty)
	assert.Len(t, q.SourceContext, SourceContextLength)
}

func TestUnavailableEvaluation(t *testing.T) {
	e := UnavailableEvaluation()
	assert.Equal(t, 0, e.Score)
	assert.Equal(t, MsgEvaluationFailed, e.Feedback)
	assert.Equal(t, []string{"accuracy", "completeness", "relevance", "clarity"}, EvaluationCriteria())
}

func TestNewQAEntry(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	answer := Answer{
		Question: "Who?",
		Text:     "Them.",
		Sources:  []Source{{Preview: "a"}, {Preview: "b"}},
	}

	entry := NewQAEntry(answer, at)

	assert.Equal(t, "Who?", entry.Question)
	assert.Equal(t, "Them.", entry.Answer)
	assert.Equal(t, 2, entry.Sources)
	assert.Equal(t, "2024-03-09 14:05:07", entry.Timestamp)
}
