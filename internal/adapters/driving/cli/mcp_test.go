package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
}

func TestMCPCmd_HasServeSubcommand(t *testing.T) {
	commands := mcpCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "serve")
}

func TestMCPServeCmd_Short(t *testing.T) {
	assert.Equal(t, "Start the MCP server", mcpServeCmd.Short)
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "port flag should exist")
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_LongMentionsStdioAndHTTP(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "stdio")
	assert.Contains(t, mcpServeCmd.Long, "--port")
	assert.Contains(t, mcpServeCmd.Long, "mcpServers")
}
