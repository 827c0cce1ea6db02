package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}

func TestChatCmd_Short(t *testing.T) {
	assert.Equal(t, "Interactive chat with the indexed documents", chatCmd.Short)
}
