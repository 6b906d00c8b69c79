package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/markpad/internal/present/format"
	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeMarkdown
	ModeHTML
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Pretty     format.PrettyOptions
}

// ParseMode parses a string like "plain", "pretty", "markdown", "html", "json", "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "markdown", "md":
		return ModeMarkdown, true
	case "html":
		return ModeHTML, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// RenderList renders the document list. docs must be the collection behind v.
func RenderList(w io.Writer, v session.View, docs []api.Document, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONDocuments(w, docs, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONDocuments(w, docs)
	case ModePlain, ModePretty:
		// Pretty lists fall back to the plain table.
		rows := make([]format.Row, len(v.Documents))
		for i, d := range v.Documents {
			rows[i] = format.Row{DocumentSummary: d}
			if i < len(docs) {
				rows[i].Bytes = len(docs[i].Content)
			}
		}
		return format.WritePlainRows(w, rows, opts.Headers)
	default:
		return fmt.Errorf("output mode not supported for lists")
	}
}

// RenderDocument renders a single document; html is its sanitized rendering.
func RenderDocument(w io.Writer, d api.Document, html string, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSONDocument(w, d, opts.JSONIndent)
	case ModePretty:
		return format.WritePrettyDocument(w, d, opts.Pretty)
	case ModeHTML:
		_, err := io.WriteString(w, withNewline(html))
		return err
	default:
		_, err := io.WriteString(w, withNewline(d.Content))
		return err
	}
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
