package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCommand_Shells(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			cfg := testConfig(t)
			output, err := runCommand(t, NewCompletionCommand(cfg), shell)
			require.NoError(t, err)
			assert.NotEmpty(t, output)
		})
	}
}

func TestCompletionCommand_RejectsUnknownShell(t *testing.T) {
	cfg := testConfig(t)
	_, err := runCommand(t, NewCompletionCommand(cfg), "tcsh")
	require.Error(t, err)
}
