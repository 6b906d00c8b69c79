package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/mithrel/markpad/internal/present/format"
)

type previewMode int

const (
	previewTerminal previewMode = iota
	previewHTML
)

func (p previewMode) String() string {
	if p == previewHTML {
		return "html"
	}
	return "terminal"
}

// preview shows the buffer either rendered for the terminal with glamour or
// as the sanitized HTML the pipeline produced, inside a scrollable viewport.
type preview struct {
	vp       viewport.Model
	mode     previewMode
	style    string
	maxWrap  int
	term     *glamour.TermRenderer
	termWrap int

	markdown string
	html     string
	content  string
}

func newPreview(style string, maxWrap int) *preview {
	return &preview{vp: viewport.New(40, 10), style: style, maxWrap: maxWrap}
}

func (p *preview) resize(w, h int) {
	p.vp.Width = max(10, w)
	p.vp.Height = max(3, h)
	p.render()
}

func (p *preview) set(markdown, html string) {
	if markdown == p.markdown && html == p.html && p.content != "" {
		return
	}
	p.markdown, p.html = markdown, html
	p.render()
}

func (p *preview) toggle() {
	if p.mode == previewTerminal {
		p.mode = previewHTML
	} else {
		p.mode = previewTerminal
	}
	p.render()
}

func (p *preview) render() {
	var out string
	switch {
	case strings.TrimSpace(p.markdown) == "":
		out = "(empty)"
	case p.mode == previewHTML:
		out = p.html
	default:
		out = p.renderTerminal()
	}
	p.content = out
	p.vp.SetContent(out)
}

func (p *preview) renderTerminal() string {
	wrap := p.vp.Width
	if p.maxWrap > 0 && p.maxWrap < wrap {
		wrap = p.maxWrap
	}
	if p.term == nil || p.termWrap != wrap {
		r, err := format.NewTermRenderer(format.PrettyOptions{Style: p.style, Width: wrap})
		if err != nil {
			return p.markdown
		}
		p.term, p.termWrap = r, wrap
	}
	out, err := p.term.Render(p.markdown)
	if err != nil {
		return p.markdown
	}
	return out
}

func (p *preview) View() string { return p.vp.View() }
