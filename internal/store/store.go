// Package store persists edit sessions in SQLite.
//
// Each history entry is kept as a lossless PNG blob, so a restored session
// is byte-identical to the one saved.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/raster"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("store: session not found")

// Schema creates the session tables. Open and New apply it.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL DEFAULT '',
	cursor INTEGER NOT NULL,
	settings TEXT NOT NULL,
	stickers TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	png BLOB NOT NULL,
	PRIMARY KEY (session_id, idx)
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`

// Store saves and loads session snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Summary describes a stored session without its images.
type Summary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Entries   int       `json:"entries"`
	Cursor    int       `json:"cursor"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Open opens (creating if needed) the database at path with the pragmas
// the store relies on, and applies the schema. ":memory:" opens a private
// in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == ":memory:" || path == "file::memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	s, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema. The caller keeps
// ownership of pragmas; foreign_keys must be on for deletes to cascade.
func New(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored copy of a session.
func (s *Store) Save(ctx context.Context, snap retouch.Snapshot) error {
	start := time.Now()
	settings, err := json.Marshal(snap.Settings)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}
	stickers, err := json.Marshal(snap.Stickers)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}

	blobs := make([][]byte, len(snap.Entries))
	for i, img := range snap.Entries {
		blobs[i], err = raster.EncodeBytes(img, raster.FormatPNG, nil)
		if err != nil {
			return fmt.Errorf("store: save %s entry %d: %w", snap.ID, i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, filename, cursor, settings, stickers, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			cursor = excluded.cursor,
			settings = excluded.settings,
			stickers = excluded.stickers,
			updated_at = excluded.updated_at`,
		snap.ID, snap.Filename, snap.Cursor, string(settings), string(stickers), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE session_id = ?`, snap.ID); err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (session_id, idx, width, height, png) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()
	for i, img := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, img.Width(), img.Height(), blobs[i]); err != nil {
			return fmt.Errorf("store: save %s entry %d: %w", snap.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.logger.Debug("store: saved", "session", snap.ID, "entries", len(snap.Entries), "elapsed", time.Since(start))
	return nil
}

// Load reads a session snapshot.
func (s *Store) Load(ctx context.Context, id string) (retouch.Snapshot, error) {
	snap := retouch.Snapshot{ID: id}
	var settings, stickers string
	err := s.db.QueryRowContext(ctx,
		`SELECT filename, cursor, settings, stickers FROM sessions WHERE id = ?`, id,
	).Scan(&snap.Filename, &snap.Cursor, &settings, &stickers)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return snap, fmt.Errorf("store: load %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(settings), &snap.Settings); err != nil {
		return snap, fmt.Errorf("store: load %s settings: %w", id, err)
	}
	if err := json.Unmarshal([]byte(stickers), &snap.Stickers); err != nil {
		return snap, fmt.Errorf("store: load %s stickers: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT idx, png FROM entries WHERE session_id = ? ORDER BY idx`, id)
	if err != nil {
		return snap, fmt.Errorf("store: load %s entries: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			idx  int
			blob []byte
		)
		if err := rows.Scan(&idx, &blob); err != nil {
			return snap, fmt.Errorf("store: load %s entries: %w", id, err)
		}
		if idx != len(snap.Entries) {
			return snap, fmt.Errorf("store: load %s: entry %d missing", id, len(snap.Entries))
		}
		img, err := raster.Decode(blob, raster.FormatPNG)
		if err != nil {
			return snap, fmt.Errorf("store: load %s entry %d: %w", id, idx, err)
		}
		snap.Entries = append(snap.Entries, img)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("store: load %s entries: %w", id, err)
	}
	return snap, nil
}

// Delete removes a session and its entries. Deleting an unknown ID
// returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.logger.Debug("store: deleted", "session", id)
	return nil
}

// List returns summaries of all stored sessions, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.filename, s.cursor, s.updated_at, COUNT(e.idx)
		FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Filename, &sum.Cursor, &updated, &sum.Entries); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}
