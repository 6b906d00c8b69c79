package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/markpad/internal/config"
	"github.com/mithrel/markpad/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"

	// skipApp marks commands that only need configuration, not storage.
	skipApp = "markpad/skip-app"
)

// Execute is the entrypoint: it builds the root command and runs it with ctx.
// The app is closed whether or not the command succeeded.
func Execute(ctx context.Context) error {
	cmd, closeApp := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, closeApp())
}

// NewRootCmd constructs the Cobra root command. Used for doc generation;
// Execute is the way to run it.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// newRootCmd returns the root command and a func releasing the app built
// for the executed subcommand, if any.
func newRootCmd(buildOpts ...wire.BuildOption) (*cobra.Command, func() error) {
	var (
		cfgPath   string
		ephemeral bool
		built     *wire.App
	)
	closeApp := func() error {
		app := built
		built = nil
		return app.Close()
	}

	cmd := &cobra.Command{
		Use:           "markpad",
		Short:         "markpad: a local markdown notebook",
		Annotations:   map[string]string{skipApp: "true"},
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, rootFlagKeys)
			if ephemeral {
				v.Set("storage.dsn", "mem://")
			}
			ctx := context.WithValue(cmd.Context(), cfgKey, v)
			if cmd.Annotations[skipApp] == "" {
				if err := config.CheckConfigValidity(v); err != nil {
					return err
				}
				opts := append([]wire.BuildOption{wire.WithLogOutput(cmd.ErrOrStderr())}, buildOpts...)
				app, err := wire.BuildApp(ctx, v, opts...)
				if err != nil {
					return err
				}
				built = app
				ctx = context.WithValue(ctx, appKey, app)
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("dsn", "", "storage dsn (sqlite://, file://, mem://); overrides storage.dsn")
	cmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep documents in memory only (same as --dsn mem://)")
	cmd.PersistentFlags().String("log-level", "", "log level; overrides log.level")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newRenameCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd, closeApp
}

// rootFlagKeys maps persistent flags onto config keys.
var rootFlagKeys = map[string]string{
	"dsn":       "storage.dsn",
	"log-level": "log.level",
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
