package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/markpad/internal/present/format"
	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/internal/store"
	"github.com/mithrel/markpad/pkg/api"
)

func newExportCmd() *cobra.Command {
	var out, formatName string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all documents as JSON or a compact binary backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			docs := app.Store.Documents()

			var buf bytes.Buffer
			switch strings.ToLower(formatName) {
			case "json":
				if err := format.WriteJSONDocuments(&buf, docs, true); err != nil {
					return err
				}
			case "backup":
				buf.Write(format.EncodeBackup(docs))
			default:
				return fmt.Errorf("invalid --format: %s", formatName)
			}

			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d documents to %s\n", len(docs), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "json", "export format: json|backup")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("json", "backup"))
	return cmd
}

func newImportCmd() *cobra.Command {
	var formatName string
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import documents from a JSON export or binary backup",
		Long: `Import documents from a JSON export or binary backup.

By default imported documents are appended as new documents dated today.
With --replace the whole collection is replaced, keeping original dates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			docs, err := decodeImport([]byte(raw), formatName)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if replace {
				b, err := store.Encode(docs)
				if err != nil {
					return err
				}
				if err := app.Slot.Save(ctx, b); err != nil {
					return fmt.Errorf("replace documents: %w", err)
				}
				if _, err := app.Session.Dispatch(ctx, session.Initialize{}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Replaced collection with %d documents\n", len(docs))
				return nil
			}

			for _, d := range docs {
				if _, err := app.Session.Dispatch(ctx, session.Create{}); err != nil {
					return err
				}
				if _, err := app.Session.Dispatch(ctx, session.Rename{Name: d.Name}); err != nil {
					return err
				}
				if _, err := saveBuffer(cmd, app, d.Content); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d documents\n", len(docs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "input format: auto|json|backup")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole collection instead of appending")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions("auto", "json", "backup"))
	return cmd
}

func decodeImport(b []byte, formatName string) ([]api.Document, error) {
	switch strings.ToLower(formatName) {
	case "json":
		return store.Decode(b)
	case "backup":
		return format.DecodeBackup(b)
	case "auto", "":
		if first, ok := firstNonSpace(b); ok && first == '[' {
			return store.Decode(b)
		}
		return format.DecodeBackup(b)
	default:
		return nil, fmt.Errorf("invalid --format: %s", formatName)
	}
}

func firstNonSpace(b []byte) (byte, bool) {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return 0, false
	}
	return trimmed[0], true
}
