// Package filesearch finds files under a directory by name and searches their
// contents for a literal pattern, honoring gitignore rules.
package filesearch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/search"
)

// Result represents a single search result.
type Result struct {
	Path    string // Relative path from search root
	Line    int    // Line number (1-indexed), 0 for file-only matches
	Col     int    // Rune column (0-indexed) of the first match on the line
	Content string // Line content, empty for file-only matches

	score int
}

// Options configures the search behavior.
type Options struct {
	Pattern       string // Literal pattern; for file names a fuzzy subsequence
	ContentSearch bool   // If true, search file contents; otherwise just filenames
	MaxResults    int    // Maximum results to return (0 = unlimited)
	CaseSensitive bool   // Case-sensitive matching
}

// Searcher performs file and content searches below one root.
type Searcher struct {
	root   string
	ignore *Ignore
}

// NewSearcher creates a searcher for rootDir ("" means the working directory).
func NewSearcher(rootDir string) (*Searcher, error) {
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		rootDir = wd
	}
	return &Searcher{root: rootDir, ignore: LoadIgnore(rootDir)}, nil
}

// Root returns the directory searched.
func (s *Searcher) Root() string { return s.root }

// Search performs a search with the given options. File name results are
// ranked best first; content results are in walk order.
func (s *Searcher) Search(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Pattern == "" {
		return nil, nil
	}
	pattern := opts.Pattern
	if !opts.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}

	var results []Result
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if skip, err := s.skip(path, d); skip {
			return err
		}
		rel, _ := filepath.Rel(s.root, path)
		if opts.ContentSearch {
			results = append(results, searchContent(path, rel, pattern, opts.CaseSensitive)...)
			if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
				return filepath.SkipAll
			}
			return nil
		}
		candidate := filepath.ToSlash(rel)
		if !opts.CaseSensitive {
			candidate = strings.ToLower(candidate)
		}
		if score, ok := fuzzyScore(pattern, candidate); ok {
			results = append(results, Result{Path: rel, score: score})
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return nil, err
	}

	if !opts.ContentSearch {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].score != results[j].score {
				return results[i].score > results[j].score
			}
			return results[i].Path < results[j].Path
		})
	}
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

const maxSearchFileSize = 10 * 1024 * 1024 // 10 MB

// skip decides whether to skip a directory entry. When skip is true, err is
// what the walk callback returns.
func (s *Searcher) skip(path string, d os.DirEntry) (bool, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." {
		return true, nil
	}
	if d.IsDir() && d.Name() == ".git" {
		return true, filepath.SkipDir
	}
	if s.ignore.Ignored(rel, d.IsDir()) {
		if d.IsDir() {
			return true, filepath.SkipDir
		}
		return true, nil
	}
	if d.IsDir() {
		return true, nil
	}
	info, err := d.Info()
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxSearchFileSize {
		return true, nil
	}
	return false, nil
}

// searchContent returns one result per line of the file containing pattern.
// Files that are not text are skipped.
func searchContent(absPath, relPath, pattern string, caseSensitive bool) []Result {
	data, err := os.ReadFile(absPath) //nolint:gosec // G304: path from directory walk
	if err != nil {
		return nil
	}
	text, err := buffer.Decode(data)
	if err != nil {
		return nil
	}

	var results []Result
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		hay := line
		if !caseSensitive {
			hay = strings.ToLower(line)
		}
		if !strings.Contains(hay, pattern) {
			continue
		}
		col := 0
		if offs := search.FindString(hay, pattern); len(offs) > 0 {
			col = offs[0]
		}
		results = append(results, Result{Path: relPath, Line: i + 1, Col: col, Content: line})
	}
	return results
}

// fuzzyScore matches pattern as a subsequence of candidate. Consecutive runs
// and matches inside the base name score higher.
func fuzzyScore(pattern, candidate string) (int, bool) {
	base := strings.LastIndexByte(candidate, '/') + 1
	score, run := 0, 0
	pi := 0
	pr := []rune(pattern)
	for i, c := range candidate {
		if pi == len(pr) {
			break
		}
		if c != pr[pi] {
			run = 0
			continue
		}
		pi++
		run++
		score += run
		if i >= base {
			score += 2
		}
	}
	if pi < len(pr) {
		return 0, false
	}
	if strings.Contains(candidate[base:], pattern) {
		score += 10 * len(pr)
	}
	return score, true
}
