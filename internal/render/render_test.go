package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

// assertSafeHTML fails when out contains a script-capable element, an event
// handler attribute, or a URL attribute with a non-web scheme.
func assertSafeHTML(t testing.TB, out string) {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(out))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		switch tok.Data {
		case "script", "style", "iframe", "object", "embed", "form", "svg", "math", "base", "meta", "link":
			t.Fatalf("unsafe element <%s> in %q", tok.Data, out)
		}
		for _, a := range tok.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				t.Fatalf("event handler %s on <%s> in %q", a.Key, tok.Data, out)
			}
			if key == "style" || key == "srcdoc" || key == "formaction" {
				t.Fatalf("unsafe attribute %s in %q", a.Key, out)
			}
			if key == "href" || key == "src" || key == "action" || key == "xlink:href" {
				v := strings.ToLower(strings.TrimSpace(a.Val))
				if i := strings.Index(v, ":"); i >= 0 && !strings.ContainsAny(v[:i], "/?#") {
					scheme := v[:i]
					if scheme != "http" && scheme != "https" && scheme != "mailto" {
						t.Fatalf("scheme %q in %s=%q in %q", scheme, a.Key, a.Val, out)
					}
				}
			}
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(""))
	assert.Equal(t, "", Render("   \n\t\n"))
}

func TestRenderBold(t *testing.T) {
	out := Render("**bold**")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderStripsScript(t *testing.T) {
	out := Render("<script>alert(1)</script>")
	assert.NotContains(t, strings.ToLower(out), "<script")
	assert.NotContains(t, out, "alert(1)")
	assertSafeHTML(t, out)
}

func TestRenderXSSVectors(t *testing.T) {
	t.Parallel()

	vectors := []struct {
		name string
		in   string
	}{
		{"img onerror", `<img src=x onerror=alert(1)>`},
		{"markdown javascript link", `[click](javascript:alert(1))`},
		{"mixed case scheme", `[click](JaVaScRiPt:alert(1))`},
		{"entity encoded scheme", `<a href="&#106;avascript:alert(1)">x</a>`},
		{"tab in scheme", "<a href=\"java\tscript:alert(1)\">x</a>"},
		{"markdown javascript image", `![x](javascript:alert(1))`},
		{"reference link", "[x][r]\n\n[r]: javascript:alert(1)"},
		{"autolink", `<javascript:alert(1)>`},
		{"vbscript", `<a href="vbscript:msgbox(1)">x</a>`},
		{"data url", `<a href="data:text/html;base64,PHNjcmlwdD5hbGVydCgxKTwvc2NyaXB0Pg==">x</a>`},
		{"iframe", `<iframe src="https://evil.example"></iframe>`},
		{"iframe srcdoc", `<iframe srcdoc="<script>alert(1)</script>"></iframe>`},
		{"svg onload", `<svg onload=alert(1)><circle r=1></svg>`},
		{"math xlink", `<math><mi xlink:href="javascript:alert(1)">x</mi></math>`},
		{"div onclick", `<div onclick="alert(1)">hi</div>`},
		{"style element", `<style>body{background:url(javascript:alert(1))}</style>`},
		{"style attribute", `<p style="background:url(javascript:alert(1))">x</p>`},
		{"object", `<object data="javascript:alert(1)"></object>`},
		{"embed", `<embed src="javascript:alert(1)">`},
		{"form action", `<form action="javascript:alert(1)"><button>go</button></form>`},
		{"button formaction", `<button formaction="javascript:alert(1)">go</button>`},
		{"meta refresh", `<meta http-equiv="refresh" content="0;url=javascript:alert(1)">`},
		{"base href", `<base href="javascript:alert(1)//">`},
		{"script in list", "- item\n- <script>alert(1)</script>"},
		{"script in blockquote", "> <script>alert(1)</script>"},
		{"script in table", "| a |\n|---|\n| <script>alert(1)</script> |"},
		{"unclosed script", "<script>alert(1)"},
		{"split tag", "<scr<script>ipt>alert(1)</script>"},
		{"nested quotes", `<a title='"><script>alert(1)</script>'>x</a>`},
		{"details ontoggle", `<details open ontoggle=alert(1)>`},
		{"input onfocus", `<input type="checkbox" autofocus onfocus=alert(1)>`},
	}
	for _, tc := range vectors {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertSafeHTML(t, Render(tc.in))
		})
	}
}

func TestRenderMarkdownFeatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		wantContains []string
	}{
		{"heading with id", "# Hello World", []string{`<h1 id="hello-world">Hello World</h1>`}},
		{"emphasis", "*it*", []string{"<em>it</em>"}},
		{"unordered list", "- a\n- b", []string{"<ul>", "<li>a</li>"}},
		{"ordered list", "1. a\n2. b", []string{"<ol>", "<li>b</li>"}},
		{"blockquote", "> quoted", []string{"<blockquote>", "quoted"}},
		{"inline code", "use `x := 1`", []string{"<code>x := 1</code>"}},
		{"fenced code is highlighted", "```go\nfmt.Println(1)\n```", []string{`class="chroma"`, "Println"}},
		{"web link kept", "[site](https://example.com)", []string{`href="https://example.com"`, "nofollow"}},
		{"relative link kept", "[doc](./other.md)", []string{`href="./other.md"`}},
		{"mailto kept", "[me](mailto:me@example.com)", []string{`href="mailto:me@example.com"`}},
		{"strikethrough", "~~gone~~", []string{"<del>gone</del>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"task list", "- [x] done", []string{"<input", `type="checkbox"`}},
		{"safe inline html kept", "H<sub>2</sub>O", []string{"<sub>2</sub>"}},
		{"image", "![logo](https://example.com/logo.png)", []string{`<img src="https://example.com/logo.png"`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := Render(tc.in)
			for _, want := range tc.wantContains {
				assert.Contains(t, out, want)
			}
			assertSafeHTML(t, out)
		})
	}
}

func TestRenderMalformedMarkdownDegrades(t *testing.T) {
	for _, in := range []string{"**unclosed", "[link](", "```\nno fence end", "<div>", "|a|\n|-"} {
		out := Render(in)
		assert.NotEmpty(t, out, "input %q", in)
		assertSafeHTML(t, out)
	}
}

func TestStagesAreIndependent(t *testing.T) {
	raw := Parse("<script>alert(1)</script>\n\n**b**")
	assert.Contains(t, raw, "<script>", "parse passes raw HTML through")

	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="x()">hi</p>`))
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, Sanitize(raw), Render("<script>alert(1)</script>\n\n**b**"))
}

func TestPipelineOptions(t *testing.T) {
	plain := New(WithHighlighting(false))
	out := plain.Render("```go\nx\n```")
	assert.NotContains(t, out, "chroma")
	assert.Contains(t, out, `class="language-go"`)

	wrapped := New(WithHardWraps(true))
	assert.Contains(t, wrapped.Render("a\nb"), "<br")
	assert.NotContains(t, New().Render("a\nb"), "<br")
}

func TestRenderIsDeterministicAndConcurrent(t *testing.T) {
	const src = "# T\n\n```go\nfunc main() {}\n```\n\n- [ ] x\n"
	want := Render(src)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Render(src))
		}()
	}
	wg.Wait()
}

func FuzzSanitize(f *testing.F) {
	for _, s := range []string{
		`<script>alert(1)</script>`,
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)">x</a>`,
		`<svg><animate onbegin=alert(1)>`,
		`<p>ok</p>`,
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		assertSafeHTML(t, Sanitize(in))
	})
}

func FuzzRender(f *testing.F) {
	for _, s := range []string{"**b**", "[x](javascript:y)", "<script>", "> - [ ] `c`"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		assertSafeHTML(t, Render(in))
	})
}
