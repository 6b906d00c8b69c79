package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classNames = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	checkbox   = regexp.MustCompile(`^checkbox$`)
)

// newPolicy extends the bluemonday UGC policy with the markup goldmark emits
// for highlighting, footnotes and task lists. Scripts, styles, event handlers
// and non http(s)/mailto URLs stay disallowed.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// chroma spans and footnote anchors
	p.AllowAttrs("class").Matching(classNames).OnElements("span", "pre", "code", "div", "a", "sup", "li", "section", "hr", "ol")

	// GFM task list items
	p.AllowAttrs("type").Matching(checkbox).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize removes everything capable of executing code from html.
func (p *Pipeline) Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return p.policy.Sanitize(html)
}
