package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/config"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show keystore metadata",
		Long: `Show the keystore path, size, creation date, secret count and the
cryptographic parameters in effect. No secret material is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			info, err := k.Info()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Keystore")
			fmt.Fprintf(out, "  Path:        %s\n", info.Path)
			fmt.Fprintf(out, "  Format:      v%d\n", info.Version)
			fmt.Fprintf(out, "  Size:        %d bytes\n", info.FileSize)
			fmt.Fprintf(out, "  Created:     %s\n", info.CreationDate)
			fmt.Fprintf(out, "  Secrets:     %d\n", info.SecretCount)
			fmt.Fprintln(out, "Encryption")
			fmt.Fprintf(out, "  Cipher:      %s (%d-byte nonce)\n", info.Algorithm, info.NonceLen)
			fmt.Fprintf(out, "  KDF:         Argon2id\n")
			fmt.Fprintf(out, "  Memory:      %d KiB\n", info.KDF.MemCostKiB)
			fmt.Fprintf(out, "  Iterations:  %d\n", info.KDF.TimeCost)
			fmt.Fprintf(out, "  Parallelism: %d\n", info.KDF.Parallelism)
			return nil
		},
	}
}
