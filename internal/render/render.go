// Package render turns markdown source into HTML that is safe to insert into a
// document view.
//
// The work is split into two pure stages that are composed by Pipeline:
//   - Parse converts markdown to HTML with goldmark. Raw HTML embedded in the
//     markdown is passed through untouched.
//   - Sanitize filters arbitrary HTML through a bluemonday allowlist policy.
//
// Sanitize is the security boundary. Parse output is treated as untrusted, so
// the stages can be tested (and fuzzed) independently.
package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Pipeline composes a markdown parser and an HTML sanitizer. A Pipeline is
// immutable after New and safe for concurrent use.
type Pipeline struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

type options struct {
	highlight bool
	hardWraps bool
}

type Option func(*options)

// WithHighlighting toggles chroma syntax highlighting of fenced code blocks.
func WithHighlighting(on bool) Option {
	return func(o *options) { o.highlight = on }
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps(on bool) Option {
	return func(o *options) { o.hardWraps = on }
}

// New builds a Pipeline. Highlighting is on and hard wraps are off by default.
func New(opts ...Option) *Pipeline {
	o := options{highlight: true}
	for _, fn := range opts {
		fn(&o)
	}
	return &Pipeline{
		md:     newMarkdown(o),
		policy: newPolicy(),
	}
}

// Render converts markdown to sanitized HTML. Blank input renders to "".
func (p *Pipeline) Render(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	return p.Sanitize(p.Parse(markdown))
}

var defaultPipeline = New()

// Render converts markdown to sanitized HTML using the default pipeline.
func Render(markdown string) string { return defaultPipeline.Render(markdown) }

// Parse converts markdown to unsanitized HTML using the default pipeline.
func Parse(markdown string) string { return defaultPipeline.Parse(markdown) }

// Sanitize filters HTML using the default policy.
func Sanitize(html string) string { return defaultPipeline.Sanitize(html) }
