package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_CreatesKeystore(t *testing.T) {
	cfg := testConfig(t)

	output, err := runCommand(t, NewInitCommand(cfg))
	require.NoError(t, err)
	assert.Contains(t, output, "Keystore initialized at")
	assert.Contains(t, output, cfg.StorePath)

	info, err := os.Stat(cfg.StorePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(57), "file should hold a header plus ciphertext")
}

func TestInitCommand_RefusesExisting(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	_, err := runCommand(t, NewInitCommand(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Contains(t, err.Error(), "knest destroy")
}

func TestInitCommand_CostFlags(t *testing.T) {
	cfg := testConfig(t)
	_, err := runCommand(t, NewInitCommand(cfg), "--mem-cost", "128", "--time-cost", "2", "--parallelism", "1")
	require.NoError(t, err)

	output, err := runCommand(t, NewInfoCommand(cfg))
	require.NoError(t, err)
	assert.Contains(t, output, "Memory:      128 KiB")
	assert.Contains(t, output, "Iterations:  2")
}

func TestInitCommand_RejectsBadCosts(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, NewInitCommand(cfg), "--mem-cost", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid KDF parameters")
	assert.NoFileExists(t, cfg.StorePath)
}
