package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Slot is a single named durable key holding one serialized value.
type Slot interface {
	// Load returns the stored value, or ErrNotFound when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored value. A failed Save leaves the previous value intact.
	Save(ctx context.Context, value []byte) error
}

var (
	ErrNotFound       = errors.New("not found")
	ErrCorrupt        = errors.New("stored value failed integrity check")
	ErrUnsupportedDSN = errors.New("unsupported storage dsn")
)

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "documents"

// Open returns a Slot based on a URL (sqlite://, file://, mem://).
func Open(ctx context.Context, dsn, key string) (Slot, io.Closer, error) {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, dsn, key)
	case strings.HasPrefix(dsn, "file://"):
		s, err := openFile(strings.TrimPrefix(dsn, "file://"))
		if err != nil {
			return nil, nil, err
		}
		return s, io.NopCloser(nil), nil
	case dsn == "mem://" || dsn == "mem":
		return NewMemSlot(), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
}
