package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/util"
)

func newFindCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find documents by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			docs := app.Store.Documents()
			names := make([]string, len(docs))
			for i, d := range docs {
				names[i] = d.Name
			}
			matches := util.FindNames(args[0], names, limit)
			if len(matches) == 0 {
				return fmt.Errorf("no document matches %q", args[0])
			}
			for _, m := range matches {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", m.Index, m.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum number of matches (0 for all)")
	return cmd
}
