// Package search finds literal matches in open buffers and keeps a cursor over
// them for next/previous navigation and replacement.
//
// All offsets are rune offsets. Matching is literal and case-sensitive, and a
// match may overlap the previous one: after a match at o the scan resumes at
// o+1.
package search

// Find returns the ascending start offsets of every occurrence of pattern in
// text. An empty pattern has no matches.
func Find(text, pattern []rune) []int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return nil
	}
	var out []int
	first := pattern[0]
	for i := 0; i+m <= n; i++ {
		if text[i] != first {
			continue
		}
		if equal(text[i:i+m], pattern) {
			out = append(out, i)
		}
	}
	return out
}

// FindString is Find for strings. Offsets are still in runes.
func FindString(text, pattern string) []int {
	return Find([]rune(text), []rune(pattern))
}

func equal(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
