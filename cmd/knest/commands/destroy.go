package commands

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/auth"
	"github.com/knestlabs/knest/internal/cmderrors"
	"github.com/knestlabs/knest/internal/config"
)

// NewDestroyCommand creates the destroy command.
func NewDestroyCommand(cfg *config.Config) *cobra.Command {
	var (
		force  bool
		passes int
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the keystore file",
		Long: `Overwrite the keystore file with random data and delete it, and drop
the matching OS keyring entry if one exists. This operation is
irreversible; without --force it asks for confirmation first.

The file is already encrypted, so the overwrite passes only matter if
the password may have leaked. Note that SSD wear leveling can retain
old blocks regardless; full disk encryption is the real protection.

Examples:
  knest destroy
  knest destroy --force --passes 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passes < 1 || passes > 10 {
				return cmderrors.UserError{
					Message:    "Invalid number of passes",
					Suggestion: "Passes must be between 1 and 10",
				}
			}

			path := cfg.StorePath
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cmderrors.UserError{
						Message:    fmt.Sprintf("No keystore found at %s", path),
						Suggestion: "Check the --store path",
						Err:        err,
					}
				}
				return fmt.Errorf("stat keystore file: %w", err)
			}

			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "This permanently deletes %s and every secret in it.\n", path)
				fmt.Fprint(cmd.OutOrStdout(), "Continue? (y/N): ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := destroyFile(path, passes); err != nil {
				return fmt.Errorf("destroy keystore: %w", err)
			}

			if cfg.UseKeyring {
				if err := auth.SystemKeyring().Delete(path); err != nil && !errors.Is(err, auth.ErrKeyringNotFound) {
					cfg.Logger.Warn().Err(err).Msg("could not remove password from OS keyring")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Keystore at %s destroyed\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().IntVarP(&passes, "passes", "n", 3, "Number of random overwrite passes")

	return cmd
}

// destroyFile overwrites path with random data passes times, then removes it.
func destroyFile(path string, passes int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	size := info.Size()

	if size > 0 {
		file, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		for pass := 0; pass < passes; pass++ {
			if _, err := file.Seek(0, io.SeekStart); err != nil {
				file.Close()
				return err
			}
			if _, err := io.CopyN(file, rand.Reader, size); err != nil {
				file.Close()
				return err
			}
			if err := file.Sync(); err != nil {
				file.Close()
				return err
			}
		}
		if err := file.Close(); err != nil {
			return err
		}
	}

	return os.Remove(path)
}
