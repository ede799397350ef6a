package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/knestlabs/knest/internal/config"
)

// NewListCommand creates the list command.
func NewListCommand(cfg *config.Config) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored secrets",
		Long: `List the keys in the keystore, one per line.

With --all the values and last-updated timestamps are shown too. Be
careful with --all on shared terminals: values end up in scrollback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := openKeystore(cfg)
			if err != nil {
				return err
			}
			defer k.Close()

			out := cmd.OutOrStdout()
			if !showAll {
				keys := k.Keys()
				sort.Strings(keys)
				for _, key := range keys {
					fmt.Fprintln(out, key)
				}
				return nil
			}

			entries := k.Entries()
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, e.Updated.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show values and timestamps")

	return cmd
}
