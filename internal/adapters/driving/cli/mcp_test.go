package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Flags(t *testing.T) {
	flag := mcpCmd.Flags().Lookup("http")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestMCPCmd_HelpOutput(t *testing.T) {
	out, err := execute("", "mcp", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Model Context Protocol")
	assert.Contains(t, out, "docqa mcp --http :8080")
}

func TestMCPCmd_MissingServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	qaService = nil

	_, err := execute("", "mcp")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "qa")
}
