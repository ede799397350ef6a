package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
)

// NewGetCommand creates the get command.
func NewGetCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value of a secret",
		Long: `Print the value stored under KEY to stdout.

The value is printed raw so it can be piped into other tools:
  export GITHUB_TOKEN=$(knest get github_token)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			value, ok := k.Get(key)
			if !ok {
				return cmderrors.UserError{
					Message:    fmt.Sprintf("No secret named %q", key),
					Suggestion: "Run 'knest list' to see stored keys",
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}
