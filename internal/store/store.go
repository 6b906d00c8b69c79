package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mithrel/markpad/internal/db"
	"github.com/mithrel/markpad/pkg/api"
)

// ErrIndexOutOfRange is the panic value (wrapped) for an invalid document index.
var ErrIndexOutOfRange = errors.New("document index out of range")

// CommitHook receives the full collection after every structural mutation.
// The slice is a copy the hook may keep.
type CommitHook func(ctx context.Context, docs []api.Document) error

// Store owns the document collection, the active index and the edit buffer.
// It is not safe for concurrent use; callers serialize intents.
type Store struct {
	slot     db.Slot
	now      func() time.Time
	defaults []api.Document
	log      zerolog.Logger
	onCommit CommitHook

	docs   []api.Document
	active int
	buffer string
	ready  bool
}

type Option func(*Store)

// WithClock overrides the time source used to date new documents.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaults replaces the bundled starter set. An empty set is ignored.
func WithDefaults(docs []api.Document) Option {
	return func(s *Store) {
		if len(docs) > 0 {
			s.defaults = api.CloneDocuments(docs)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithOnCommit replaces the default hook, which writes the encoded collection to the slot.
func WithOnCommit(h CommitHook) Option {
	return func(s *Store) { s.onCommit = h }
}

// New builds an uninitialized store backed by slot. Call Initialize before use.
func New(slot db.Slot, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		now:      time.Now,
		defaults: DefaultDocuments(),
		log:      zerolog.Nop(),
	}
	s.onCommit = s.writeSlot
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize loads the persisted collection, falling back to the default set
// when the slot is empty, unreadable or malformed. It never fails.
func (s *Store) Initialize(ctx context.Context) {
	docs, err := s.load(ctx)
	switch {
	case err == nil:
		s.log.Debug().Int("documents", len(docs)).Msg("loaded persisted documents")
	case errors.Is(err, db.ErrNotFound):
		s.log.Info().Msg("no persisted documents; using default set")
		docs = api.CloneDocuments(s.defaults)
	default:
		s.log.Warn().Err(err).Msg("discarding persisted documents; using default set")
		docs = api.CloneDocuments(s.defaults)
	}
	s.docs = docs
	s.active = 0
	s.buffer = s.docs[0].Content
	s.ready = true
}

func (s *Store) load(ctx context.Context) ([]api.Document, error) {
	if s.slot == nil {
		return nil, db.ErrNotFound
	}
	b, err := s.slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// CreateDocument appends a blank document and makes it active. Unsaved
// buffer edits on the previously active document are discarded.
func (s *Store) CreateDocument(ctx context.Context) {
	s.mustBeReady()
	s.docs = append(s.docs, api.NewBlankDocument(s.now()))
	s.active = len(s.docs) - 1
	s.buffer = ""
	s.persist(ctx)
}

// SelectDocument makes docs[index] active and resets the buffer to its saved
// content. An out-of-range index is a caller bug and panics.
func (s *Store) SelectDocument(index int) {
	s.mustBeReady()
	s.mustBeValid(index)
	s.active = index
	s.buffer = s.docs[index].Content
}

// EditBuffer replaces the working copy. Nothing is persisted.
func (s *Store) EditBuffer(text string) {
	s.mustBeReady()
	s.buffer = text
}

// SaveChanges commits the buffer into the active document and persists.
func (s *Store) SaveChanges(ctx context.Context) {
	s.mustBeReady()
	s.mustBeValid(s.active)
	s.docs[s.active].Content = s.buffer
	s.persist(ctx)
}

// RenameActiveDocument sets the active document's name and persists at once,
// without committing the buffer.
func (s *Store) RenameActiveDocument(ctx context.Context, name string) {
	s.mustBeReady()
	s.mustBeValid(s.active)
	s.docs[s.active].Name = name
	s.persist(ctx)
}

// DeleteActiveDocument removes the active document. Removing the last one
// leaves a single blank document. The first document becomes active.
func (s *Store) DeleteActiveDocument(ctx context.Context) {
	s.mustBeReady()
	s.mustBeValid(s.active)
	s.docs = append(s.docs[:s.active:s.active], s.docs[s.active+1:]...)
	if len(s.docs) == 0 {
		s.docs = append(s.docs, api.NewBlankDocument(s.now()))
	}
	s.active = 0
	s.buffer = s.docs[0].Content
	s.persist(ctx)
}

// persist hands a copy of the collection to the commit hook. Failures are
// logged and swallowed; the in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context) {
	if s.onCommit == nil {
		return
	}
	if err := s.onCommit(ctx, api.CloneDocuments(s.docs)); err != nil {
		s.log.Warn().Err(err).Int("documents", len(s.docs)).Msg("persist failed; keeping in-memory state")
	}
}

func (s *Store) writeSlot(ctx context.Context, docs []api.Document) error {
	if s.slot == nil {
		return nil
	}
	b, err := Encode(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := s.slot.Save(ctx, b); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}
	return nil
}

// Documents returns a copy of the collection in display order.
func (s *Store) Documents() []api.Document { return api.CloneDocuments(s.docs) }

func (s *Store) Len() int { return len(s.docs) }

func (s *Store) ActiveIndex() int { return s.active }

// Active returns the active document as last saved.
func (s *Store) Active() api.Document {
	s.mustBeReady()
	return s.docs[s.active]
}

func (s *Store) Buffer() string { return s.buffer }

// Dirty reports whether the buffer holds edits not yet saved, by comparing
// the saved document's hash with the hash it would have after a save.
func (s *Store) Dirty() bool {
	if !s.ready {
		return false
	}
	saved := s.docs[s.active]
	pending := saved
	pending.Content = s.buffer
	return pending.Hash() != saved.Hash()
}

func (s *Store) mustBeReady() {
	if !s.ready {
		panic("store: used before Initialize")
	}
}

func (s *Store) mustBeValid(index int) {
	if index < 0 || index >= len(s.docs) {
		panic(fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.docs)))
	}
}
