package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/pkg/api"
)

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	// Document content is markdown; keep <, > and & readable.
	enc.SetEscapeHTML(false)
	return enc
}

func WriteJSONDocuments(w io.Writer, docs []api.Document, indent bool) error {
	if docs == nil {
		docs = []api.Document{}
	}
	return newEncoder(w, indent).Encode(docs)
}

func WriteJSONDocument(w io.Writer, d api.Document, indent bool) error {
	return newEncoder(w, indent).Encode(d)
}

// WriteJSONView writes the full session view. The HTTP API answers every intent with it.
func WriteJSONView(w io.Writer, v session.View, indent bool) error {
	return newEncoder(w, indent).Encode(v)
}
