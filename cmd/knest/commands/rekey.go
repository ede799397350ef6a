package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/auth"
	"github.com/knestlabs/knest/internal/config"
)

// NewRekeyCommand creates the rekey command.
func NewRekeyCommand(cfg *config.Config) *cobra.Command {
	var (
		memCost     uint32
		timeCost    uint32
		parallelism uint32
	)

	cmd := &cobra.Command{
		Use:   "rekey",
		Short: "Change the keystore password",
		Long: `Re-encrypt the keystore under a new password, with a fresh salt and
key. The current password is asked for first, then the new one twice.

The Argon2id cost flags also make rekey the way to raise (or lower) the
KDF parameters of an existing store:
  knest rekey --mem-cost 131072 --time-cost 4

With KNEST_PASSWORD set, rekey keeps the password and only rotates the
salt and KDF parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			kdf, err := kdfFromFlags(cfg, memCost, timeCost, parallelism)
			if err != nil {
				return err
			}

			newPassword, err := auth.ReadNewPassword(passwordOptions(cfg))
			if err != nil {
				return err
			}
			var keep string
			if cfg.UseKeyring {
				keep = string(newPassword)
			}

			if err := k.Rekey(newPassword, kdf); err != nil {
				return fmt.Errorf("rekey keystore: %w", err)
			}

			storeInKeyring(cfg, keep)

			fmt.Fprintln(cmd.OutOrStdout(), "Keystore re-encrypted with the new password")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&memCost, "mem-cost", 0, "Argon2id memory cost in KiB (default: configured)")
	cmd.Flags().Uint32Var(&timeCost, "time-cost", 0, "Argon2id iterations (default: configured)")
	cmd.Flags().Uint32Var(&parallelism, "parallelism", 0, "Argon2id lanes (default: configured)")

	return cmd
}
