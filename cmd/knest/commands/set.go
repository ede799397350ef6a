package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/pkg/store"
)

// NewSetCommand creates the set command.
func NewSetCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a new secret",
		Long: `Store a new secret under KEY. Fails if KEY already exists;
use 'knest update' to change an existing secret.

Examples:
  knest set github_token ghp_abc123
  knest set "db password" 's3cret'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			if err := k.Set(key, value); err != nil {
				if errors.Is(err, store.ErrKeyExists) {
					return cmderrors.UserError{
						Message:    fmt.Sprintf("Secret %q already exists", key),
						Suggestion: fmt.Sprintf("Use 'knest update %s <value>' to change it", key),
						Err:        err,
					}
				}
				return err
			}
			if err := k.Save(); err != nil {
				return fmt.Errorf("save keystore: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Secret %q stored\n", key)
			return nil
		},
	}
}
