package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/pkg/store"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "update KEY VALUE",
		Short: "Change an existing secret",
		Long: `Replace the value stored under KEY and refresh its timestamp.
Fails if KEY does not exist; use 'knest set' to create it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			if err := k.Update(key, value); err != nil {
				if errors.Is(err, store.ErrKeyNotFound) {
					return cmderrors.UserError{
						Message:    fmt.Sprintf("No secret named %q", key),
						Suggestion: fmt.Sprintf("Use 'knest set %s <value>' to create it", key),
						Err:        err,
					}
				}
				return err
			}
			if err := k.Save(); err != nil {
				return fmt.Errorf("save keystore: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Secret %q updated\n", key)
			return nil
		},
	}
}
