package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func sampleAnswer() *domain.Answer {
	chunk := domain.RetrievedChunk{
		Content: "Revenue grew by twelve percent.",
		Metadata: map[string]any{
			domain.MetaFilename:   "report.pdf",
			domain.MetaChunkIndex: 3,
		},
		Score: 0.91,
	}
	return &domain.Answer{
		Question: "How did revenue change?",
		Text:     "It grew twelve percent.",
		Sources:  domain.NewSources([]domain.RetrievedChunk{chunk}),
	}
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.qa.answer = sampleAnswer()

	out, err := execute("", "ask", "How", "did", "revenue", "change?", "-k", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.qa.lastK)
	assert.Contains(t, out, "Q: How did revenue change?")
	assert.Contains(t, out, "A: It grew twelve percent.")
	assert.Contains(t, out, "1. report.pdf (chunk 3, score 0.91)")
	assert.Contains(t, out, "Revenue grew by twelve percent.")
	assert.Zero(t, ts.qa.saves)
}

func TestAskCmd_DefaultK(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "ask", "anything")

	require.NoError(t, err)
	assert.Zero(t, ts.qa.lastK)
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.qa.answer = sampleAnswer()

	out, err := execute("", "ask", "--json", "How did revenue change?")

	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "It grew twelve percent.", decoded["answer"])
	assert.Len(t, decoded["sources"], 1)
}

func TestAskCmd_Save(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "ask", "--save", "anything")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.qa.saves)
	assert.Contains(t, out, "Saved to history.")
}

func TestAskCmd_SaveError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.qa.saveErr = domain.ErrIndexUnavailable

	_, err := execute("", "ask", "--save", "anything")

	require.Error(t, err)
	assert.Equal(t, domain.MsgIndexUnavailable, err.Error())
}

func TestAskCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.qa.err = domain.ErrEmbeddingUnavailable

	_, err := execute("", "ask", "anything")

	require.Error(t, err)
	assert.Equal(t, "The embedding model is unavailable.", err.Error())
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}
