package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/present"
	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/internal/wire"
)

func newListCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(outputMode)
			if !ok {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			opts := present.Options{
				Mode:       mode,
				JSONIndent: false, // pretty-print via external tools like jq
				Headers:    !noHeaders,
			}
			view, docs := app.Session.View(), app.Store.Documents()
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderList(w, view, docs, opts)
			})
		},
	}
	cmd.Flags().StringVar(&outputMode, "output", "plain", "output mode: plain|json|ndjson")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("plain", "json", "ndjson"))
	return cmd
}

func newNewCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new [file|-]",
		Short: "Create a document, optionally with a name and initial content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			v, err := app.Session.Dispatch(ctx, session.Create{})
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				if v, err = app.Session.Dispatch(ctx, session.Rename{Name: name}); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				content, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				if v, err = saveBuffer(cmd, app, content); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", v.ActiveIndex, v.ActiveName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "document name")
	return cmd
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <index> <name>",
		Short:             "Rename a document",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeIndex,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if _, err := selectArg(cmd, app, args[0]); err != nil {
				return err
			}
			v, err := app.Session.Dispatch(cmd.Context(), session.Rename{Name: args[1]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", v.ActiveIndex, v.ActiveName)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <index>",
		Short:             "Delete a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIndex,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v, err := selectArg(cmd, app, args[0])
			if err != nil {
				return err
			}
			name := v.ActiveName
			if v, err = app.Session.Dispatch(cmd.Context(), session.Delete{}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d documents left)\n", name, len(v.Documents))
			return nil
		},
	}
}

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "save <index> [file|-]",
		Short:             "Replace a document's content from a file or stdin",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeIndex,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src := "-"
			if len(args) == 2 {
				src = args[1]
			}
			content, err := readInput(cmd, src)
			if err != nil {
				return err
			}
			if _, err := selectArg(cmd, app, args[0]); err != nil {
				return err
			}
			v, err := saveBuffer(cmd, app, content)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", v.ActiveName, len(v.Buffer))
			return nil
		},
	}
}

// selectArg parses an index argument and makes that document active.
func selectArg(cmd *cobra.Command, app *wire.App, arg string) (session.View, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return session.View{}, fmt.Errorf("invalid index %q: %w", arg, session.ErrInvalidIndex)
	}
	return app.Session.Dispatch(cmd.Context(), session.Select{Index: idx})
}

func saveBuffer(cmd *cobra.Command, app *wire.App, content string) (session.View, error) {
	if _, err := app.Session.Dispatch(cmd.Context(), session.Edit{Text: content}); err != nil {
		return session.View{}, err
	}
	return app.Session.Dispatch(cmd.Context(), session.Save{})
}

// readInput reads a whole file, or stdin for "-".
func readInput(cmd *cobra.Command, src string) (string, error) {
	var (
		b   []byte
		err error
	)
	if src == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(src)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", src, err)
	}
	return string(b), nil
}
