package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mithrel/markpad/internal/present/format"
	"github.com/mithrel/markpad/internal/session"
)

// maxBodyBytes caps request bodies; a document is a single markdown buffer.
const maxBodyBytes = 8 << 20

// Renderer is the stateless markdown to HTML stage behind POST /v1/render.
type Renderer interface {
	Render(markdown string) string
}

// Server exposes a Session over a small JSON API.
type Server struct {
	cfg      *viper.Viper
	sess     *session.Session
	renderer Renderer
	log      zerolog.Logger
}

func New(cfg *viper.Viper, sess *session.Session, r Renderer, log zerolog.Logger) *Server {
	return &Server{cfg: cfg, sess: sess, renderer: r, log: log}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/documents", s.handleCreate)
		r.Put("/active", s.handleSelect)
		r.Delete("/active", s.handleDelete)
		r.Put("/buffer", s.handleEdit)
		r.Post("/save", s.handleSave)
		r.Put("/name", s.handleRename)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on http_addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.GetString("http_addr")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("http api listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.Create{}, http.StatusCreated)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.Save{}, http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.Delete{}, http.StatusOK)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	s.dispatch(w, r, session.Select{Index: *req.Index}, http.StatusOK)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text *string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	s.dispatch(w, r, session.Edit{Text: *req.Text}, http.StatusOK)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Name == nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.dispatch(w, r, session.Rename{Name: *req.Name}, http.StatusOK)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Markdown string `json:"markdown"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": s.renderer.Render(req.Markdown)})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, in session.Intent, okStatus int) {
	// The client going away must not cancel the write behind a committed change.
	v, err := s.sess.Dispatch(context.WithoutCancel(r.Context()), in)
	switch {
	case errors.Is(err, session.ErrInvalidIndex):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.log.Error().Err(err).Str("intent", fmt.Sprintf("%T", in)).Msg("dispatch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(okStatus)
		if err := format.WriteJSONView(w, v, false); err != nil {
			s.log.Debug().Err(err).Msg("write view")
		}
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad json: trailing data")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
