package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/present/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return tui.Run(cmd.Context(), app.Session, tui.Options{
				PreviewStyle: app.Cfg.GetString("preview.style"),
				PreviewWidth: app.Cfg.GetInt("preview.width"),
			})
		},
	}
}
