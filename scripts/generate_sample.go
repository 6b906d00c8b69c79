package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
	"time"

	"github.com/mithrel/markpad/pkg/api"
)

// Writes a JSON collection of sample markdown documents to stdout, suitable
// for `markpad import` or `markpad import --replace`.
func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	topics := []string{"groceries", "meeting", "reading", "ideas", "travel", "recipes", "journal", "todo"}

	const total = 200
	out := make([]api.Document, 0, total)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < total; i++ {
		topic := topics[mr.Intn(len(topics))]
		created := base.AddDate(0, 0, i/3+mr.Intn(2))
		out = append(out, api.Document{
			CreatedAt: created.Format(api.DateLayout),
			Name:      fmt.Sprintf("%s-%03d.md", topic, i+1),
			Content:   sampleBody(mr, topic, i+1),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func sampleBody(r *mrand.Rand, topic string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s%s %03d\n\n", strings.ToUpper(topic[:1]), topic[1:], n)
	fmt.Fprintf(&b, "Some **%s** notes with `inline code` and a [link](https://example.com/%d).\n\n", topic, n)
	// 1-5 list items, some checked
	for i, k := 0, 1+r.Intn(5); i < k; i++ {
		box := " "
		if r.Float64() < 0.4 {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] item %d\n", box, i+1)
	}
	if r.Float64() < 0.3 {
		b.WriteString("\n```go\nfmt.Println(\"hello\")\n```\n")
	}
	if r.Float64() < 0.2 {
		b.WriteString("\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	}
	return b.String()
}
