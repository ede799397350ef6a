package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroyCommand_Force(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	output, err := runCommand(t, NewDestroyCommand(cfg), "--force")
	require.NoError(t, err)
	assert.Contains(t, output, "destroyed")
	assert.NoFileExists(t, cfg.StorePath)
}

func TestDestroyCommand_ConfirmYes(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	cmd := NewDestroyCommand(cfg)
	cmd.SetIn(strings.NewReader("y\n"))
	output, err := runCommand(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, output, "Continue? (y/N):")
	assert.NoFileExists(t, cfg.StorePath)
}

func TestDestroyCommand_ConfirmNo(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	cmd := NewDestroyCommand(cfg)
	cmd.SetIn(strings.NewReader("n\n"))
	output, err := runCommand(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, output, "Cancelled")
	assert.FileExists(t, cfg.StorePath)
}

func TestDestroyCommand_MissingKeystore(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, NewDestroyCommand(cfg), "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No keystore found")
}

func TestDestroyCommand_BadPasses(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	_, err := runCommand(t, NewDestroyCommand(cfg), "--force", "--passes", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid number of passes")
	assert.FileExists(t, cfg.StorePath)
}
