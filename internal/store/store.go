// Package store persists recently opened files, search/replace history and
// pre-save file backups in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS recent_files (
	path     TEXT PRIMARY KEY,
	opened   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	kind     TEXT NOT NULL,
	term     TEXT NOT NULL,
	used     INTEGER NOT NULL,
	PRIMARY KEY (kind, term)
);

CREATE TABLE IF NOT EXISTS backups (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	path     TEXT NOT NULL,
	content  BLOB NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_opened ON recent_files(opened);
CREATE INDEX IF NOT EXISTS idx_history_used ON history(kind, used);
CREATE INDEX IF NOT EXISTS idx_backups_path ON backups(path, id);
`

// Store is the editor's SQLite database. All methods are safe on a nil
// receiver, so the editor keeps working when the database cannot be opened.
type Store struct {
	mu        sync.Mutex
	db        *sql.DB
	retention time.Duration

	saveCh chan saveReq
	done   chan struct{}
}

// Open creates or opens the database at dbPath. History entries not used
// within retention are purged on open.
func Open(dbPath string, retention time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		db:        db,
		retention: retention,
		saveCh:    make(chan saveReq, 64),
		done:      make(chan struct{}),
	}
	s.purgeStale()
	go s.saveLoop()
	return s, nil
}

// Close drains pending writes and closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	close(s.saveCh)
	<-s.done
	return s.db.Close()
}

// --- Recent files ---

// AddRecent records path as just opened and trims the list to keep entries.
func (s *Store) AddRecent(path string, keep int) {
	if s == nil || path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO recent_files (path, opened) VALUES (?, ?)",
		path, time.Now().UnixNano(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record recent file")
		return
	}
	if keep > 0 {
		_, err = s.db.Exec(
			`DELETE FROM recent_files WHERE path NOT IN
			 (SELECT path FROM recent_files ORDER BY opened DESC LIMIT ?)`, keep,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to trim recent files")
		}
	}
}

// Recent returns up to limit recently opened paths, newest first.
// Safe to call on a nil receiver (returns nothing).
func (s *Store) Recent(limit int) []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT path FROM recent_files ORDER BY opened DESC LIMIT ?", limit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load recent files")
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RemoveRecent forgets path, e.g. after it failed to open.
func (s *Store) RemoveRecent(path string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM recent_files WHERE path = ?", path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove recent file")
	}
}

// --- Helpers ---

// purgeStale removes history entries older than the retention.
func (s *Store) purgeStale() {
	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.retention).UnixNano()
	res, err := s.db.Exec("DELETE FROM history WHERE used <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale history")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale history entries")
	}
}
