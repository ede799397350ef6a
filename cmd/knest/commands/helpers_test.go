package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/knestlabs/knest/internal/auth"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/internal/logging"
	"github.com/knestlabs/knest/pkg/crypto"
)

// testConfig builds a config pointing at a fresh temp store with fast KDF
// parameters and the password preloaded in the environment.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(auth.EnvVar, "test-password")
	return &config.Config{
		StorePath: filepath.Join(t.TempDir(), "knest.db"),
		KDF:       crypto.KdfParams{MemCostKiB: 64, TimeCost: 1, Parallelism: 1},
		Logger:    logging.Nop(),
	}
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func initStore(t *testing.T, cfg *config.Config) {
	t.Helper()
	_, err := runCommand(t, NewInitCommand(cfg))
	require.NoError(t, err)
}

func setSecret(t *testing.T, cfg *config.Config, key, value string) {
	t.Helper()
	_, err := runCommand(t, NewSetCommand(cfg), key, value)
	require.NoError(t, err)
}
