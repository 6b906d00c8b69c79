package api

import "time"

// DefaultDocumentName is the label given to documents created blank.
const DefaultDocumentName = "new-document.md"

// DateLayout is the calendar-date format of Document.CreatedAt.
const DateLayout = "2006-01-02"

// Document is one note. The JSON shape is the persisted storage format.
type Document struct {
	CreatedAt string `json:"createdAt"`
	Name      string `json:"name"`
	Content   string `json:"content"`
}

// NewBlankDocument returns an empty document dated now (UTC, date only).
func NewBlankDocument(now time.Time) Document {
	return Document{
		CreatedAt: now.UTC().Format(DateLayout),
		Name:      DefaultDocumentName,
		Content:   "",
	}
}

// CloneDocuments returns a copy of docs that shares no backing array with it.
func CloneDocuments(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	return append([]Document(nil), docs...)
}
