package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
	"github.com/knestlabs/knest/pkg/store"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "remove KEY",
		Aliases: []string{"rm"},
		Short:   "Delete a secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			if err := k.Remove(key); err != nil {
				if errors.Is(err, store.ErrKeyNotFound) {
					return cmderrors.UserError{
						Message:    fmt.Sprintf("No secret named %q", key),
						Suggestion: "Run 'knest list' to see stored keys",
						Err:        err,
					}
				}
				return err
			}
			if err := k.Save(); err != nil {
				return fmt.Errorf("save keystore: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Secret %q removed\n", key)
			return nil
		},
	}
}
