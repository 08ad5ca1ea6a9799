package store

import (
	"bytes"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxBackupSize is the largest file content kept as a backup (1 MB).
const MaxBackupSize = 1 << 20

// Backup is the content a file had before it was overwritten by a save.
type Backup struct {
	Path    string
	Content []byte
	Created time.Time
}

// SnapshotFile reads path for a backup. It reports false for missing files
// and files over MaxBackupSize.
func SnapshotFile(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > MaxBackupSize {
		return nil, false
	}
	data, err := os.ReadFile(path) //nolint:gosec // open document
	if err != nil {
		return nil, false
	}
	return data, true
}

// RecordBackup stores content as the newest backup of path and keeps at
// most keep backups for it. Content equal to the newest backup is not
// stored twice.
func (s *Store) RecordBackup(path string, content []byte, keep int) {
	if s == nil || path == "" || len(content) > MaxBackupSize {
		return
	}
	if content == nil {
		content = []byte{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var last []byte
	err := s.db.QueryRow(
		`SELECT content FROM backups WHERE path = ? ORDER BY id DESC LIMIT 1`, path,
	).Scan(&last)
	if err == nil && bytes.Equal(last, content) {
		return // already recorded
	}
	_, err = s.db.Exec(
		`INSERT INTO backups (path, content, created) VALUES (?, ?, ?)`,
		path, content, time.Now().UnixNano(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record backup")
		return
	}
	if keep > 0 {
		_, err = s.db.Exec(
			`DELETE FROM backups WHERE path = ? AND id NOT IN
			 (SELECT id FROM backups WHERE path = ? ORDER BY id DESC LIMIT ?)`,
			path, path, keep,
		)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to trim backups")
		}
	}
}

// LastBackup returns the newest backup of path.
func (s *Store) LastBackup(path string) (Backup, bool) {
	if s == nil {
		return Backup{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := Backup{Path: path}
	var created int64
	err := s.db.QueryRow(
		`SELECT content, created FROM backups WHERE path = ? ORDER BY id DESC LIMIT 1`, path,
	).Scan(&b.Content, &created)
	if err != nil {
		return Backup{}, false
	}
	b.Created = time.Unix(0, created)
	return b, true
}

// Backups returns the number of backups kept for path.
func (s *Store) Backups(path string) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM backups WHERE path = ?`, path).Scan(&n); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to count backups")
	}
	return n
}
