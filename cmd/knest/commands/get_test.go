package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knestlabs/knest/internal/auth"
)

func TestGetCommand_RawOutputForPiping(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)
	setSecret(t, cfg, "token", "value with spaces")

	output, err := runCommand(t, NewGetCommand(cfg), "token")
	require.NoError(t, err)
	// Exactly the value and a trailing newline, nothing else.
	assert.Equal(t, "value with spaces\n", output)
}

func TestGetCommand_WrongPassword(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)
	setSecret(t, cfg, "token", "value")

	t.Setenv(auth.EnvVar, "not-the-password")
	_, err := runCommand(t, NewGetCommand(cfg), "token")
	require.Error(t, err)
	// Wrong password and corruption share one message.
	assert.Contains(t, err.Error(), "invalid password or corrupted data")
}

func TestGetCommand_UnknownKey(t *testing.T) {
	cfg := testConfig(t)
	initStore(t, cfg)

	_, err := runCommand(t, NewGetCommand(cfg), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `No secret named "missing"`)
	assert.Contains(t, err.Error(), "knest list")
}
