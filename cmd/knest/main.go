package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/cmd/knest/commands"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe every memguard-protected buffer on the way out, whatever path
	// got us there.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		storePath      string
		useKeyring     bool
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "knest",
		Short: "Simple, offline, cross-platform secrets manager",
		Long: `knest keeps named secrets in a single encrypted file, protected by a
password. Keys are derived with Argon2id and the store is sealed with
XChaCha20-Poly1305; saves replace the file atomically so a crash can
never leave it half-written.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = configFile
			cfg.StorePath = storePath
			cfg.UseKeyring = useKeyring
			cfg.NonInteractive = nonInteractive
			cfg.Logger = logging.New(debug, noColor)
			return cfg.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Keystore file path (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVar(&useKeyring, "keyring", false, "Use the OS keyring as a password source")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; fail instead")

	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewSetCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewUpdateCommand(cfg),
		commands.NewRemoveCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewInfoCommand(cfg),
		commands.NewRekeyCommand(cfg),
		commands.NewDestroyCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
