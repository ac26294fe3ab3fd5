package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestDocumentsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(documentsCmd.Commands()))
	for _, cmd := range documentsCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show"}, names)
	assert.Contains(t, documentsCmd.Aliases, "docs")
}

func TestDocumentsCmd_List(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	for _, args := range [][]string{{"documents"}, {"documents", "list"}, {"docs"}} {
		out, err := execute("", args...)

		require.NoError(t, err)
		assert.Contains(t, out, "report.pdf (pdf)")
		assert.Contains(t, out, "Added:   2024-05-01 09:30:00")
		assert.Contains(t, out, "Total: 2 documents")
	}
}

func TestDocumentsCmd_ListEmpty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.documents = nil

	out, err := execute("", "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested yet.")
}

func TestDocumentsCmd_ListError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.err = domain.ErrIndexUnavailable

	_, err := execute("", "documents")

	require.Error(t, err)
	assert.Equal(t, domain.MsgIndexUnavailable, err.Error())
}

func TestDocumentsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "documents", "show", "d2")

	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, ts.documents.opened)
	assert.Contains(t, out, "File:     report.pdf")
	assert.Contains(t, out, "Size:     2048 bytes")
	assert.Contains(t, out, "Words:    900")
	assert.Contains(t, out, "Quarterly results.")
}

func TestDocumentsCmd_ShowNotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "documents", "show", "missing")

	require.Error(t, err)
	assert.Equal(t, "Document not found.", err.Error())
}

func TestDocumentsCmd_ShowRequiresID(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "documents", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
