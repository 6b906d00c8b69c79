package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mithrel/markpad/pkg/api"
)

// ErrMalformedState indicates a persisted value that is not a document collection.
var ErrMalformedState = errors.New("malformed document state")

// Encode serializes the collection as a JSON array in collection order.
func Encode(docs []api.Document) ([]byte, error) {
	if docs == nil {
		docs = []api.Document{}
	}
	return json.Marshal(docs)
}

// wireDocument uses pointers so a missing field can be told apart from "".
type wireDocument struct {
	CreatedAt *string `json:"createdAt"`
	Name      *string `json:"name"`
	Content   *string `json:"content"`
}

// Decode parses a persisted collection. Anything other than a non-empty array of
// {createdAt, name, content} string objects yields ErrMalformedState.
func Decode(b []byte) ([]api.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var raw []wireDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedState)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty collection", ErrMalformedState)
	}
	out := make([]api.Document, 0, len(raw))
	for i, w := range raw {
		if w.CreatedAt == nil || w.Name == nil || w.Content == nil {
			return nil, fmt.Errorf("%w: document %d is missing a field", ErrMalformedState, i)
		}
		out = append(out, api.Document{CreatedAt: *w.CreatedAt, Name: *w.Name, Content: *w.Content})
	}
	return out, nil
}
