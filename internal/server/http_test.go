package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/markpad/internal/db"
	"github.com/mithrel/markpad/internal/render"
	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/internal/store"
	"github.com/mithrel/markpad/pkg/api"
)

func newTestServer(t *testing.T) (*Server, *db.MemSlot) {
	t.Helper()
	slot := db.NewMemSlot()
	st := store.New(slot, store.WithDefaults([]api.Document{
		{CreatedAt: "2024-01-01", Name: "a.md", Content: "# A"},
		{CreatedAt: "2024-01-02", Name: "b.md", Content: "b"},
	}))
	st.Initialize(context.Background())
	p := render.New()
	return New(viper.New(), session.New(st, p), p, zerolog.Nop()), slot
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s.Router(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStateAndEditSaveFlow(t *testing.T) {
	s, slot := newTestServer(t)
	h := s.Router()

	rec, v := do(t, h, http.MethodGet, "/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a.md", v["activeName"])
	assert.Len(t, v["documents"], 2)

	rec, v = do(t, h, http.MethodPut, "/v1/buffer", `{"text":"**bold** <script>alert(1)</script>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, v["dirty"])
	assert.Contains(t, v["html"], "<strong>bold</strong>")
	assert.NotContains(t, v["html"], "<script")
	assert.Equal(t, 0, slot.Writes())

	rec, v = do(t, h, http.MethodPost, "/v1/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, v["dirty"])
	assert.Equal(t, 1, slot.Writes())
}

func TestCreateSelectRenameDelete(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Router()

	rec, v := do(t, h, http.MethodPost, "/v1/documents", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 2, v["activeIndex"])

	rec, v = do(t, h, http.MethodPut, "/v1/name", `{"name":"renamed.md"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "renamed.md", v["activeName"])

	rec, v = do(t, h, http.MethodPut, "/v1/active", `{"index":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b", v["buffer"])

	rec, v = do(t, h, http.MethodDelete, "/v1/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, v["documents"], 2)
	assert.EqualValues(t, 0, v["activeIndex"])
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Router()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"index out of range", http.MethodPut, "/v1/active", `{"index":9}`, http.StatusUnprocessableEntity},
		{"negative index", http.MethodPut, "/v1/active", `{"index":-1}`, http.StatusUnprocessableEntity},
		{"missing index", http.MethodPut, "/v1/active", `{}`, http.StatusBadRequest},
		{"missing text", http.MethodPut, "/v1/buffer", `{}`, http.StatusBadRequest},
		{"missing name", http.MethodPut, "/v1/name", `{}`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/v1/name", `{"name":"x","extra":1}`, http.StatusBadRequest},
		{"not json", http.MethodPut, "/v1/buffer", `text`, http.StatusBadRequest},
		{"trailing data", http.MethodPut, "/v1/buffer", `{"text":"a"}{"text":"b"}`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/v1/save", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/v1/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	_, v := do(t, h, http.MethodGet, "/v1/state", "")
	assert.Equal(t, "a.md", v["activeName"], "failed requests leave state alone")
}

func TestRenderIsStateless(t *testing.T) {
	s, slot := newTestServer(t)
	h := s.Router()

	rec, v := do(t, h, http.MethodPost, "/v1/render", `{"markdown":"[x](javascript:alert(1)) _em_"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, v["html"], "<em>em</em>")
	assert.NotContains(t, v["html"], "javascript:")

	_, v = do(t, h, http.MethodPost, "/v1/render", `{"markdown":""}`)
	assert.Equal(t, "", v["html"])

	_, state := do(t, h, http.MethodGet, "/v1/state", "")
	assert.Equal(t, "# A", state["buffer"])
	assert.Equal(t, 0, slot.Writes())
}

func TestBodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	big := `{"text":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/buffer", bytes.NewBufferString(big))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// cancelAwareSlot fails saves whose context is already done, like a sqlite write would.
type cancelAwareSlot struct{ *db.MemSlot }

func (c cancelAwareSlot) Save(ctx context.Context, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.MemSlot.Save(ctx, value)
}

func TestWritesSurviveClientDisconnect(t *testing.T) {
	slot := cancelAwareSlot{db.NewMemSlot()}
	st := store.New(slot)
	st.Initialize(context.Background())
	p := render.New()
	h := New(viper.New(), session.New(st, p), p, zerolog.Nop()).Router()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, slot.Writes())
}

func TestViewResponseKeepsMarkupReadable(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s.Router(), http.MethodPut, "/v1/buffer", `{"text":"a & b"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"buffer":"a & b"`)
	assert.Contains(t, rec.Body.String(), `<p>a &amp; b</p>`)
}
