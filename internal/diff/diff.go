// Package diff compares a buffer with the file it was loaded from.
package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Mark is a gutter marker for one line of the new text.
type Mark int

const (
	None Mark = iota
	Add
	Change
	Delete // lines were removed just below this one
)

// Stats counts changed lines.
type Stats struct {
	Added   int
	Removed int
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

func unified(name, before, after string) gotextdiff.Unified {
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	return gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits)
}

// Unified returns a unified diff from before to after, "" when equal.
func Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	return fmt.Sprint(unified(name, before, after))
}

// Count returns the number of added and removed lines.
func Count(before, after string) Stats {
	var s Stats
	if before == after {
		return s
	}
	for _, h := range unified("", before, after).Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Insert:
				s.Added++
			case gotextdiff.Delete:
				s.Removed++
			}
		}
	}
	return s
}

// Markers returns gutter marks keyed by 0-indexed line of after. A run of
// deletions followed by insertions marks the inserted lines as changed.
func Markers(before, after string) map[int]Mark {
	if before == after {
		return nil
	}
	marks := make(map[int]Mark)
	for _, h := range unified("", before, after).Hunks {
		line := h.ToLine - 1 // 0-indexed line in after
		deleted := 0
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Equal:
				if deleted > 0 {
					markDelete(marks, line-1)
				}
				deleted = 0
				line++
			case gotextdiff.Delete:
				deleted++
			case gotextdiff.Insert:
				if deleted > 0 {
					marks[line] = Change
					deleted--
				} else {
					marks[line] = Add
				}
				line++
			}
		}
		if deleted > 0 {
			markDelete(marks, line-1)
		}
	}
	if len(marks) == 0 {
		return nil
	}
	return marks
}

func markDelete(marks map[int]Mark, row int) {
	if row < 0 {
		row = 0
	}
	if marks[row] == None {
		marks[row] = Delete
	}
}
