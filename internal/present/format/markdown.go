package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/markpad/pkg/api"
)

// PrettyOptions configures terminal markdown rendering.
type PrettyOptions struct {
	Style string
	Width int
}

// NewTermRenderer builds a glamour renderer for the given options.
func NewTermRenderer(o PrettyOptions) (*glamour.TermRenderer, error) {
	style := o.Style
	if style == "" {
		style = "dark"
	}
	width := o.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// WritePrettyMarkdown renders raw markdown for a terminal.
func WritePrettyMarkdown(w io.Writer, md string, o PrettyOptions) error {
	r, err := NewTermRenderer(o)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyDocument renders a document with a small header block.
func WritePrettyDocument(w io.Writer, d api.Document, o PrettyOptions) error {
	md := fmt.Sprintf(`> **%s** | created %s

---

%s
`, d.Name, d.CreatedAt, strings.TrimSpace(d.Content))
	return WritePrettyMarkdown(w, md, o)
}
