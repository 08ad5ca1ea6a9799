package search

import (
	"fmt"
	"unicode/utf8"
)

// Target is a searchable document. *buffer.Buffer implements it.
type Target interface {
	Runes() []rune
	// Select selects [start, start+length). It returns false without
	// changing anything when the range does not fit.
	Select(start, length int) bool
	Splice(start, length int, replacement string) error
}

// Tabs resolves the documents a session searches.
type Tabs interface {
	// ActiveSearchable returns the active tab's target and index, or nil and
	// -1 when the active tab cannot be searched.
	ActiveSearchable() (Target, int)
	// AllSearchable returns one entry per tab in tab order. Tabs that cannot
	// be searched have a nil entry.
	AllSearchable() []Target
	// Focus activates the tab holding t.
	Focus(t Target)
}

// Scope selects which tabs a search covers.
type Scope int

const (
	ActiveTab Scope = iota
	AllTabs
)

func (s Scope) String() string {
	if s == AllTabs {
		return "all tabs"
	}
	return "active tab"
}

// State is the session lifecycle.
type State int

const (
	Idle State = iota
	HasResults
	NoResults
)

// Match is one occurrence of the pattern.
type Match struct {
	Target Target
	Tab    int // tab index at search time
	Offset int
}

// Session holds the results of the last search and the navigation cursor.
// It is not safe for concurrent use; it lives on the UI event loop.
type Session struct {
	tabs    Tabs
	scope   Scope
	state   State
	pattern string
	matches []Match
	cursor  int
	applied bool
	target  Target // active tab scanned in ActiveTab scope
}

// NewSession creates an idle session over tabs.
func NewSession(tabs Tabs) *Session {
	return &Session{tabs: tabs, cursor: -1}
}

// Search scans the scope for pattern and selects the first match.
func (s *Session) Search(pattern string) State {
	s.pattern = pattern
	s.scan()
	s.cursor = -1
	s.Next()
	return s.state
}

// scan rebuilds the match list for the current pattern and scope.
func (s *Session) scan() {
	s.matches = s.matches[:0]
	s.applied = false
	s.target = nil
	if s.pattern != "" && s.tabs != nil {
		pat := []rune(s.pattern)
		switch s.scope {
		case AllTabs:
			for i, t := range s.tabs.AllSearchable() {
				s.collect(t, i, pat)
			}
		default:
			t, i := s.tabs.ActiveSearchable()
			s.target = t
			s.collect(t, i, pat)
		}
	}
	if len(s.matches) > 0 {
		s.state = HasResults
	} else {
		s.state = NoResults
	}
}

func (s *Session) collect(t Target, tab int, pat []rune) {
	if t == nil {
		return
	}
	for _, off := range Find(t.Runes(), pat) {
		s.matches = append(s.matches, Match{Target: t, Tab: tab, Offset: off})
	}
}

// Next moves to the following match, wrapping to the first.
// It returns whether the selection was applied.
func (s *Session) Next() bool {
	s.retarget()
	if len(s.matches) == 0 {
		return false
	}
	s.cursor++
	if s.cursor >= len(s.matches) {
		s.cursor = 0
	}
	return s.apply()
}

// Previous moves to the preceding match, wrapping to the last.
func (s *Session) Previous() bool {
	s.retarget()
	if len(s.matches) == 0 {
		return false
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = len(s.matches) - 1
	}
	return s.apply()
}

// retarget rescans an ActiveTab session whose results belong to a tab that
// is no longer active. It reports whether the results were replaced.
func (s *Session) retarget() bool {
	if s.scope != ActiveTab || s.state == Idle || s.tabs == nil {
		return false
	}
	if t, _ := s.tabs.ActiveSearchable(); t == s.target {
		return false
	}
	s.scan()
	s.cursor = -1
	return true
}

func (s *Session) apply() bool {
	m := s.matches[s.cursor]
	if s.scope == AllTabs && s.tabs != nil {
		s.tabs.Focus(m.Target)
	}
	s.applied = m.Target.Select(m.Offset, utf8.RuneCountInString(s.pattern))
	return s.applied
}

// SetScope changes the scope. A search already performed is re-run.
func (s *Session) SetScope(scope Scope) {
	if s.scope == scope {
		return
	}
	s.scope = scope
	if s.state != Idle {
		s.Search(s.pattern)
	}
}

// Reset drops the results and returns to Idle. The scope is kept.
func (s *Session) Reset() {
	s.pattern = ""
	s.matches = nil
	s.cursor = -1
	s.applied = false
	s.target = nil
	s.state = Idle
}

// Scope returns the current scope.
func (s *Session) Scope() Scope { return s.scope }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Pattern returns the pattern of the last search.
func (s *Session) Pattern() string { return s.pattern }

// Total returns the number of matches.
func (s *Session) Total() int { return len(s.matches) }

// Ordinal returns the 1-based position of the cursor, 0 without results.
func (s *Session) Ordinal() int {
	if len(s.matches) == 0 || s.cursor < 0 {
		return 0
	}
	return s.cursor + 1
}

// Applied reports whether the last navigation selected its match.
func (s *Session) Applied() bool { return s.applied }

// Current returns the match under the cursor.
func (s *Session) Current() (Match, bool) {
	if len(s.matches) == 0 || s.cursor < 0 {
		return Match{}, false
	}
	return s.matches[s.cursor], true
}

// Matches returns a copy of the match list in scan order.
func (s *Session) Matches() []Match {
	return append([]Match(nil), s.matches...)
}

// Offsets returns the match offsets that belong to t.
func (s *Session) Offsets(t Target) []int {
	var out []int
	for _, m := range s.matches {
		if m.Target == t {
			out = append(out, m.Offset)
		}
	}
	return out
}

// Status is the dialog label: "3 of 7", "No matches" or "".
func (s *Session) Status() string {
	switch s.state {
	case HasResults:
		return fmt.Sprintf("%d of %d", s.Ordinal(), s.Total())
	case NoResults:
		return "No matches"
	default:
		return ""
	}
}
