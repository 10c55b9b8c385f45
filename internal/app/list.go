package app

import (
	"fmt"
	"text/tabwriter"

	"codeberg.org/sigterm-de/boopkit/internal/scripts"
	"github.com/spf13/cobra"
)

func (c *cli) newListCommand() *cobra.Command {
	var suggestFrom string

	cmd := &cobra.Command{
		Use:   "list [QUERY]",
		Short: "List scripts, optionally filtered by a fuzzy query",
		Long: `List loaded scripts in library order.

With QUERY the list is fuzzy-filtered on names and tags. With --suggest the
list holds only scripts tagged for the format detected in FILE ("-" reads
stdin).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.loadLibrary()
			if err != nil {
				return err
			}

			var list []scripts.Script
			switch {
			case suggestFrom != "":
				content, err := readInput(cmd.InOrStdin(), suggestFrom)
				if err != nil {
					return err
				}
				list = lib.Suggest(content)
			case len(args) == 1:
				list = lib.Search(args[0])
			default:
				list = lib.All()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Origin, s.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&suggestFrom, "suggest", "", "suggest scripts for the content of this file")
	return cmd
}
