package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/markpad/internal/config"
	"github.com/mithrel/markpad/internal/db"
	"github.com/mithrel/markpad/internal/store"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion",
		Short:       "Generate shell completion scripts",
		Annotations: map[string]string{skipApp: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "bash",
		Short:       "Generate Bash completions",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletion(os.Stdout)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:         "zsh",
		Short:       "Generate Zsh completions",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(os.Stdout)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:         "fish",
		Short:       "Generate Fish completions",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		},
	})

	return cmd
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeIndex offers document indexes described by name. Completion runs
// without the persistent pre-run, so storage is opened directly.
func completeIndex(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	v := viper.New()
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	applyConfigFlagOverrides(cmd, v, rootFlagKeys)
	slot, closer, err := db.Open(ctx, v.GetString("storage.dsn"), v.GetString("storage.key"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer closer.Close()
	b, err := slot.Load(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	docs, err := store.Decode(b)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = fmt.Sprintf("%d\t%s", i, d.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
