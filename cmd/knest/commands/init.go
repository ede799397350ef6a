package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/auth"
	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/pkg/keystore"
	"github.com/knestlabs/knest/pkg/storage"
)

// NewInitCommand creates the init command.
func NewInitCommand(cfg *config.Config) *cobra.Command {
	var (
		memCost     uint32
		timeCost    uint32
		parallelism uint32
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new keystore",
		Long: `Create a new encrypted keystore at the configured path.

The password is asked for twice (or read from stdin / KNEST_PASSWORD).
Argon2id cost parameters default to 64 MiB of memory, 3 iterations and one
lane; raise them for higher-value stores.

Examples:
  knest init
  knest init --store /backup/knest.db
  knest init --mem-cost 131072 --time-cost 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kdf, err := kdfFromFlags(cfg, memCost, timeCost, parallelism)
			if err != nil {
				return err
			}

			password, err := auth.ReadNewPassword(passwordOptions(cfg))
			if err != nil {
				return err
			}
			// The engine wipes the buffer; keep a copy for the keyring.
			var keep string
			if cfg.UseKeyring {
				keep = string(password)
			}

			k, err := keystore.Init(password, storage.New(cfg.StorePath), kdf)
			if err != nil {
				if errors.Is(err, keystore.ErrExists) {
					return cmderrors.UserError{
						Message:    fmt.Sprintf("A keystore already exists at %s", cfg.StorePath),
						Suggestion: "Use --store to pick another path, or 'knest destroy' to remove the old one",
						Err:        err,
					}
				}
				return err
			}
			defer k.Close()

			storeInKeyring(cfg, keep)

			fmt.Fprintf(cmd.OutOrStdout(), "Keystore initialized at %s\n", cfg.StorePath)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memCost, "mem-cost", 0, "Argon2id memory cost in KiB (default 65536)")
	cmd.Flags().Uint32Var(&timeCost, "time-cost", 0, "Argon2id iterations (default 3)")
	cmd.Flags().Uint32Var(&parallelism, "parallelism", 0, "Argon2id lanes (default 1)")

	return cmd
}
