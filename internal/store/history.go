package store

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Kind separates the search and replacement histories.
type Kind string

const (
	KindSearch  Kind = "search"
	KindReplace Kind = "replace"
)

type saveReq struct {
	kind  Kind
	term  string
	used  time.Time
	flush chan struct{}
}

// AddHistory queues term for persistence. Non-blocking; empty terms are ignored.
func (s *Store) AddHistory(kind Kind, term string) {
	if s == nil || term == "" {
		return
	}
	select {
	case s.saveCh <- saveReq{kind: kind, term: term, used: time.Now()}:
	default:
		log.Warn().Str("kind", string(kind)).Msg("save channel full, dropping history entry")
	}
}

// saveLoop drains saveCh and writes entries to the DB.
func (s *Store) saveLoop() {
	defer close(s.done)
	for req := range s.saveCh {
		if req.flush != nil {
			close(req.flush)
			continue
		}
		s.writeHistory(req)
	}
}

func (s *Store) writeHistory(req saveReq) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO history (kind, term, used) VALUES (?, ?, ?)",
		string(req.kind), req.term, req.used.UnixNano(),
	)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(req.kind)).Msg("failed to save history entry")
	}
}

// Flush blocks until all queued writes have reached the DB.
// Times out after 5 seconds to avoid deadlocking the caller.
func (s *Store) Flush() {
	if s == nil {
		return
	}
	done := make(chan struct{})
	select {
	case s.saveCh <- saveReq{flush: done}:
		<-done
	case <-time.After(5 * time.Second):
		log.Warn().Msg("flush timed out waiting to enqueue")
	}
}

// History returns up to limit terms of kind, most recently used first.
func (s *Store) History(kind Kind, limit int) []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT term FROM history WHERE kind = ? ORDER BY used DESC LIMIT ?",
		string(kind), limit,
	)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to load history")
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			continue
		}
		out = append(out, term)
	}
	return out
}
