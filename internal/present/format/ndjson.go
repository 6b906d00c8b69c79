package format

import (
	"io"

	"github.com/mithrel/markpad/pkg/api"
)

// WriteNDJSONDocuments writes documents as newline-delimited JSON objects.
func WriteNDJSONDocuments(w io.Writer, docs []api.Document) error {
	enc := newEncoder(w, false)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}
