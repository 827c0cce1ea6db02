package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearCmd_Use(t *testing.T) {
	assert.Equal(t, "clear [document-id]", clearCmd.Use)
}

func TestClearCmd_Short(t *testing.T) {
	assert.Equal(t, "Remove indexed records", clearCmd.Short)
}

func TestClearCmd_AcceptsMaxOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"clear", "doc-1", "doc-2"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestClearCmd_HasAllFlag(t *testing.T) {
	flag := clearCmd.Flags().Lookup("all")
	require.NotNil(t, flag, "all flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestClearCmd_RequiresIDOrAll(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"clear"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearAll = false
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provide a document id or --all")
}
