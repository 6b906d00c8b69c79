package wire

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mithrel/markpad/internal/db"
	"github.com/mithrel/markpad/internal/logging"
	"github.com/mithrel/markpad/internal/render"
	"github.com/mithrel/markpad/internal/session"
	"github.com/mithrel/markpad/internal/store"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      zerolog.Logger
	Slot     db.Slot
	Store    *store.Store
	Session  *session.Session
	Pipeline *render.Pipeline

	closer io.Closer
}

type buildOptions struct {
	logOut io.Writer
	slot   db.Slot
}

type BuildOption func(*buildOptions)

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) BuildOption {
	return func(o *buildOptions) { o.logOut = w }
}

// WithSlot bypasses storage.dsn and uses slot directly. A slot that is also
// an io.Closer is closed with the app.
func WithSlot(slot db.Slot) BuildOption {
	return func(o *buildOptions) { o.slot = slot }
}

// BuildApp wires dependencies with the provided config and initializes the store.
func BuildApp(ctx context.Context, v *viper.Viper, opts ...BuildOption) (*App, error) {
	bo := buildOptions{logOut: os.Stderr}
	for _, o := range opts {
		o(&bo)
	}

	logger := logging.New(bo.logOut, v.GetString("log.level"), v.GetString("log.format"))

	slot, closer := bo.slot, io.Closer(nil)
	if c, ok := slot.(io.Closer); ok {
		closer = c
	}
	if slot == nil {
		var err error
		slot, closer, err = db.Open(ctx, v.GetString("storage.dsn"), v.GetString("storage.key"))
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	pipeline := render.New(
		render.WithHighlighting(v.GetBool("render.highlight")),
		render.WithHardWraps(v.GetBool("render.hard_wraps")),
	)

	st := store.New(slot, store.WithLogger(logger.With().Str("component", "store").Logger()))
	st.Initialize(ctx)

	return &App{
		Cfg:      v,
		Log:      logger,
		Slot:     slot,
		Store:    st,
		Session:  session.New(st, pipeline),
		Pipeline: pipeline,
		closer:   closer,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
