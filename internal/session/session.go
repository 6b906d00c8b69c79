// Package session runs user intents against a document store one at a time and
// produces the view the presentation layer displays after each of them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mithrel/markpad/internal/render"
	"github.com/mithrel/markpad/internal/store"
)

// ErrInvalidIndex is returned when an intent names a document that does not exist.
var ErrInvalidIndex = errors.New("invalid document index")

// ErrUnknownIntent is returned for intents the session does not handle.
var ErrUnknownIntent = errors.New("unknown intent")

// Renderer is the render stage the session feeds the buffer through.
type Renderer interface {
	Render(markdown string) string
}

// DocumentSummary is one row of the document list.
type DocumentSummary struct {
	Index     int    `json:"index"`
	CreatedAt string `json:"createdAt"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

// View is everything the presentation layer needs after a state change.
type View struct {
	Documents   []DocumentSummary `json:"documents"`
	ActiveIndex int               `json:"activeIndex"`
	ActiveName  string            `json:"activeName"`
	Buffer      string            `json:"buffer"`
	HTML        string            `json:"html"`
	Dirty       bool              `json:"dirty"`
}

// Session serializes intents over a Store, like a single UI event loop, and
// re-renders the buffer whenever it changes.
type Session struct {
	mu       sync.Mutex
	store    *store.Store
	renderer Renderer

	html        string
	renderedFor string
	rendered    bool
}

// New wraps an initialized store. A nil renderer uses the default pipeline.
func New(st *store.Store, r Renderer) *Session {
	if r == nil {
		r = render.New()
	}
	return &Session{store: st, renderer: r}
}

// Dispatch applies one intent and returns the resulting view.
func (s *Session) Dispatch(ctx context.Context, in Intent) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch it := in.(type) {
	case Initialize:
		s.store.Initialize(ctx)
	case Create:
		s.store.CreateDocument(ctx)
	case Select:
		if it.Index < 0 || it.Index >= s.store.Len() {
			return s.viewLocked(), fmt.Errorf("%w: %d (have %d documents)", ErrInvalidIndex, it.Index, s.store.Len())
		}
		s.store.SelectDocument(it.Index)
	case Edit:
		s.store.EditBuffer(it.Text)
	case Save:
		s.store.SaveChanges(ctx)
	case Rename:
		s.store.RenameActiveDocument(ctx, it.Name)
	case Delete:
		s.store.DeleteActiveDocument(ctx)
	default:
		return s.viewLocked(), fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
	return s.viewLocked(), nil
}

// View returns the current view without changing state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	docs := s.store.Documents()
	active := s.store.ActiveIndex()
	rows := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		rows[i] = DocumentSummary{Index: i, CreatedAt: d.CreatedAt, Name: d.Name, Active: i == active}
	}
	buf := s.store.Buffer()
	return View{
		Documents:   rows,
		ActiveIndex: active,
		ActiveName:  docs[active].Name,
		Buffer:      buf,
		HTML:        s.renderLocked(buf),
		Dirty:       s.store.Dirty(),
	}
}

// renderLocked re-renders only when the buffer changed since the last view.
func (s *Session) renderLocked(buf string) string {
	if s.rendered && s.renderedFor == buf {
		return s.html
	}
	s.html = s.renderer.Render(buf)
	s.renderedFor = buf
	s.rendered = true
	return s.html
}
