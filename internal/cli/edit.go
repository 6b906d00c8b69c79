package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/editor"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "edit <index>",
		Short:             "Edit a document in $EDITOR and save it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIndex,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v, err := selectArg(cmd, app, args[0])
			if err != nil {
				return err
			}
			command, err := editor.Command(app.Cfg.GetString("editor.command"))
			if err != nil {
				return err
			}
			path, err := editor.PathFor(v.ActiveIndex, v.ActiveName)
			if err != nil {
				return err
			}
			streams := editor.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
			out, changed, err := editor.Edit(cmd.Context(), command, path, []byte(v.Buffer), streams)
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			if !changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			if v, err = saveBuffer(cmd, app, string(out)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", v.ActiveName, len(v.Buffer))
			return nil
		},
	}
	return cmd
}
