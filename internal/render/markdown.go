package render

import (
	"bytes"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

func newMarkdown(o options) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.GFM,      // tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if o.highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}
	rendererOpts := []renderer.Option{
		// Raw HTML is kept so pasted snippets survive; Sanitize strips what is unsafe.
		gmhtml.WithUnsafe(),
	}
	if o.hardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Parse converts markdown to HTML. The output is not safe to display until it
// has been passed through Sanitize.
func (p *Pipeline) Parse(markdown string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &buf); err != nil {
		// Convert only fails on writer errors; degrade to escaped source.
		return "<pre>" + html.EscapeString(markdown) + "</pre>"
	}
	return buf.String()
}
