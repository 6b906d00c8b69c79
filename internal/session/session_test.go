package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/markpad/internal/db"
	"github.com/mithrel/markpad/internal/store"
	"github.com/mithrel/markpad/pkg/api"
)

type countingRenderer struct {
	mu    sync.Mutex
	calls int
}

func (c *countingRenderer) Render(md string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return "<p>" + md + "</p>"
}

func newTestSession(t *testing.T, r Renderer) (*Session, *db.MemSlot) {
	t.Helper()
	slot := db.NewMemSlot()
	st := store.New(slot,
		store.WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
		store.WithDefaults([]api.Document{
			{CreatedAt: "2024-01-01", Name: "one.md", Content: "**one**"},
			{CreatedAt: "2024-01-02", Name: "two.md", Content: "two"},
		}),
	)
	st.Initialize(context.Background())
	return New(st, r), slot
}

func TestViewAfterInitialize(t *testing.T) {
	s, _ := newTestSession(t, nil)
	v := s.View()

	require.Len(t, v.Documents, 2)
	assert.Equal(t, DocumentSummary{Index: 0, CreatedAt: "2024-01-01", Name: "one.md", Active: true}, v.Documents[0])
	assert.False(t, v.Documents[1].Active)
	assert.Equal(t, "one.md", v.ActiveName)
	assert.Equal(t, "**one**", v.Buffer)
	assert.Contains(t, v.HTML, "<strong>one</strong>")
	assert.False(t, v.Dirty)
}

func TestDispatchIntents(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestSession(t, nil)

	v, err := s.Dispatch(ctx, Edit{Text: "<script>x()</script># Draft"})
	require.NoError(t, err)
	assert.True(t, v.Dirty)
	assert.NotContains(t, v.HTML, "<script")

	v, err = s.Dispatch(ctx, Save{})
	require.NoError(t, err)
	assert.False(t, v.Dirty)
	assert.Equal(t, 1, slot.Writes())

	v, err = s.Dispatch(ctx, Create{})
	require.NoError(t, err)
	assert.Equal(t, 2, v.ActiveIndex)
	assert.Equal(t, "new-document.md", v.ActiveName)
	assert.Equal(t, "", v.HTML)

	v, err = s.Dispatch(ctx, Rename{Name: "notes.md"})
	require.NoError(t, err)
	assert.Equal(t, "notes.md", v.ActiveName)
	assert.Equal(t, "notes.md", v.Documents[2].Name)

	v, err = s.Dispatch(ctx, Select{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "two", v.Buffer)

	v, err = s.Dispatch(ctx, Delete{})
	require.NoError(t, err)
	assert.Len(t, v.Documents, 2)
	assert.Equal(t, 0, v.ActiveIndex)

	v, err = s.Dispatch(ctx, Initialize{})
	require.NoError(t, err)
	assert.Equal(t, []string{"one.md", "notes.md"}, []string{v.Documents[0].Name, v.Documents[1].Name})
}

func TestSelectOutOfRangeIsRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, nil)
	_, _ = s.Dispatch(ctx, Select{Index: 1})

	for _, idx := range []int{-1, 2, 99} {
		v, err := s.Dispatch(ctx, Select{Index: idx})
		assert.ErrorIs(t, err, ErrInvalidIndex)
		assert.Equal(t, 1, v.ActiveIndex, "state is unchanged")
	}
}

func TestUnknownIntent(t *testing.T) {
	s, _ := newTestSession(t, nil)
	_, err := s.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestRenderOnlyWhenBufferChanges(t *testing.T) {
	ctx := context.Background()
	r := &countingRenderer{}
	s, _ := newTestSession(t, r)

	s.View()
	s.View()
	assert.Equal(t, 1, r.calls)

	_, _ = s.Dispatch(ctx, Rename{Name: "x"})
	assert.Equal(t, 1, r.calls, "rename does not touch the buffer")

	v, _ := s.Dispatch(ctx, Edit{Text: "changed"})
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, "<p>changed</p>", v.HTML)
}

func TestConcurrentDispatchIsSerialized(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(ctx, Create{})
			_, _ = s.Dispatch(ctx, Edit{Text: "x"})
			_, _ = s.Dispatch(ctx, Save{})
			_, _ = s.Dispatch(ctx, Delete{})
		}()
	}
	wg.Wait()

	v := s.View()
	assert.GreaterOrEqual(t, len(v.Documents), 1)
	assert.Less(t, v.ActiveIndex, len(v.Documents))
}
