package store

import (
	_ "embed"

	"github.com/mithrel/markpad/pkg/api"
)

//go:embed defaults.json
var defaultsJSON []byte

var defaultDocuments = mustDecodeDefaults()

func mustDecodeDefaults() []api.Document {
	docs, err := Decode(defaultsJSON)
	if err != nil {
		panic("store: bundled defaults.json is invalid: " + err.Error())
	}
	return docs
}

// DefaultDocuments returns a fresh copy of the bundled starter documents.
func DefaultDocuments() []api.Document {
	return api.CloneDocuments(defaultDocuments)
}
