//go:build !mem

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/markpad/pkg/api"
)

type sqliteSlot struct {
	db  *sql.DB
	key string
}

func openSQLite(ctx context.Context, dsn, key string) (Slot, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteSlot{db: dbh, key: key}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS slots (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  digest TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`)
	return err
}

func (s *sqliteSlot) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	var digest string
	row := s.db.QueryRowContext(ctx, `SELECT value, digest FROM slots WHERE key=?`, s.key)
	if err := row.Scan(&value, &digest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if api.Digest(value) != digest {
		return nil, fmt.Errorf("%w: key %q", ErrCorrupt, s.key)
	}
	return value, nil
}

func (s *sqliteSlot) Save(ctx context.Context, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `INSERT INTO slots(key, value, digest, updated_at) VALUES(?,?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, digest=excluded.digest, updated_at=excluded.updated_at`,
		s.key, value, api.Digest(value), time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}
