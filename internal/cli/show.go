package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/markpad/internal/present"
	"github.com/mithrel/markpad/internal/present/format"
	"github.com/mithrel/markpad/internal/wire"
)

func newShowCmd() *cobra.Command {
	var outputMode string
	var asHTML bool
	cmd := &cobra.Command{
		Use:               "show <index>",
		Short:             "Display a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIndex,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			out := cmd.OutOrStdout()
			if asHTML {
				outputMode = "html"
			}
			if outputMode == "" {
				outputMode = "markdown"
				if isTerminal(out) {
					outputMode = "pretty"
				}
			}
			mode, ok := present.ParseMode(outputMode)
			if !ok || mode == present.ModePlain {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			v, err := selectArg(cmd, app, args[0])
			if err != nil {
				return err
			}
			doc := app.Store.Active()
			opts := present.Options{Mode: mode, JSONIndent: true, Pretty: prettyOptions(app)}
			if mode != present.ModePretty {
				return present.RenderDocument(out, doc, v.HTML, opts)
			}
			return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderDocument(w, doc, v.HTML, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: pretty|markdown|html|json (default pretty on a terminal, markdown otherwise)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the sanitized HTML (same as --output html)")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("pretty", "markdown", "html", "json"))
	return cmd
}

func newRenderCmd() *cobra.Command {
	var terminal bool
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render markdown to sanitized HTML",
		Long: `Render markdown from a file or stdin to sanitized HTML.

With --terminal and a terminal on stdout the markdown is rendered for the
terminal instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			md, err := readInput(cmd, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if terminal && isTerminal(out) {
				return format.WritePrettyMarkdown(out, md, prettyOptions(app))
			}
			_, err = io.WriteString(out, withNewline(app.Pipeline.Render(md)))
			return err
		},
	}
	cmd.Flags().BoolVarP(&terminal, "terminal", "t", false, "render for the terminal when stdout is a TTY")
	return cmd
}

func prettyOptions(app *wire.App) format.PrettyOptions {
	return format.PrettyOptions{
		Style: app.Cfg.GetString("preview.style"),
		Width: app.Cfg.GetInt("preview.width"),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
