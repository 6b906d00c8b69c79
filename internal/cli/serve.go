package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API on http_addr (localhost by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if listen != "" {
				app.Cfg.Set("http_addr", listen)
			}
			srv := server.New(app.Cfg, app.Session, app.Pipeline, app.Log.With().Str("component", "http").Logger())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "markpad API listening on http://%s\n", app.Cfg.GetString("http_addr"))
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config http_addr)")
	return cmd
}
