package search

import (
	"fmt"
	"unicode/utf8"
)

// ReplaceOne replaces the match at offsets[cursor]. It returns false when
// cursor is out of range.
func ReplaceOne(t Target, offsets []int, cursor int, pattern, replacement string) (bool, error) {
	if t == nil || cursor < 0 || cursor >= len(offsets) {
		return false, nil
	}
	if err := t.Splice(offsets[cursor], utf8.RuneCountInString(pattern), replacement); err != nil {
		return false, fmt.Errorf("replace at %d: %w", offsets[cursor], err)
	}
	return true, nil
}

// ReplaceAll replaces every match in ascending order. Offsets are positions in
// the text before any replacement; each one is shifted by the length change of
// the replacements already applied. A match that starts inside an earlier
// replaced match no longer exists and is skipped, so a match is shifted by the
// count of replacements made rather than by its index. The two agree unless
// offsets overlap. Returns the number of replacements made.
func ReplaceAll(t Target, offsets []int, pattern, replacement string) (int, error) {
	if t == nil || len(offsets) == 0 {
		return 0, nil
	}
	plen := utf8.RuneCountInString(pattern)
	delta := utf8.RuneCountInString(replacement) - plen
	n, end := 0, -1
	for _, off := range offsets {
		if off < end {
			continue
		}
		if err := t.Splice(off+n*delta, plen, replacement); err != nil {
			return n, fmt.Errorf("replace at %d: %w", off, err)
		}
		n++
		end = off + plen
	}
	return n, nil
}

// ReplaceCurrent replaces the match under the cursor, rescans and keeps the
// cursor at the same ordinal so the match that followed is selected next. If
// the text under the cursor no longer matches the pattern the buffer was
// edited since the search; nothing is replaced and the results are refreshed.
func (s *Session) ReplaceCurrent(replacement string) (bool, error) {
	if s.retarget() {
		s.Next()
		return false, nil
	}
	m, ok := s.Current()
	if !ok {
		return false, nil
	}
	ord := s.cursor
	if !s.stillMatches(m) {
		s.rescanAt(ord)
		return false, nil
	}
	offsets := s.Offsets(m.Target)
	local := 0
	for i, off := range offsets {
		if off == m.Offset {
			local = i
			break
		}
	}
	done, err := ReplaceOne(m.Target, offsets, local, s.pattern, replacement)
	if err != nil {
		return false, err
	}
	s.rescanAt(ord)
	return done, nil
}

// ReplaceAll replaces every match in the scope, then rescans. The scope is
// scanned again first, so edits made since the last search and a change of
// active tab are taken into account.
func (s *Session) ReplaceAll(replacement string) (int, error) {
	if s.state == Idle {
		return 0, nil
	}
	s.scan()
	if len(s.matches) == 0 {
		s.cursor = -1
		return 0, nil
	}
	var (
		total int
		seen  = make(map[Target]bool)
	)
	for _, m := range s.matches {
		if seen[m.Target] {
			continue
		}
		seen[m.Target] = true
		n, err := ReplaceAll(m.Target, s.Offsets(m.Target), s.pattern, replacement)
		total += n
		if err != nil {
			s.rescanAt(0)
			return total, err
		}
	}
	s.rescanAt(0)
	return total, nil
}

// rescanAt re-runs the search and places the cursor on ordinal ord (0-based),
// wrapping to the first match when fewer matches remain.
func (s *Session) rescanAt(ord int) {
	s.scan()
	if len(s.matches) == 0 {
		s.cursor = -1
		return
	}
	s.cursor = ord - 1
	if s.cursor >= len(s.matches) {
		s.cursor = len(s.matches) - 1
	}
	s.Next()
}

func (s *Session) stillMatches(m Match) bool {
	pat := []rune(s.pattern)
	text := m.Target.Runes()
	if m.Offset+len(pat) > len(text) {
		return false
	}
	return equal(text[m.Offset:m.Offset+len(pat)], pat)
}
