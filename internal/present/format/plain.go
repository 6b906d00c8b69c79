package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/markpad/internal/session"
)

// TSV columns: index, created, name, bytes; the active row is marked with '*'.
var headerLine = "\tindex\tcreated\tname\tbytes\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// Row is one line of the plain document table.
type Row struct {
	session.DocumentSummary
	Bytes int
}

func WritePlainRows(w io.Writer, rows []Row, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, r := range rows {
		mark := ""
		if r.Active {
			mark = "*"
		}
		line := fmt.Sprintf("%s\t%d\t%s\t%s\t%d\n", mark, r.Index, esc(r.CreatedAt), esc(r.Name), r.Bytes)
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
