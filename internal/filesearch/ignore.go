package filesearch

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// IgnoreFiles are read from the search root, in order. Later rules win.
var IgnoreFiles = []string{".gitignore", ".ignore", ".vateignore"}

// Ignore matches slash-separated relative paths against gitignore rules.
type Ignore struct {
	rules []ignoreRule
}

type ignoreRule struct {
	re      *regexp.Regexp
	negate  bool
	dirOnly bool
}

// LoadIgnore reads the ignore files found in root. Missing files are skipped.
func LoadIgnore(root string) *Ignore {
	ig := &Ignore{}
	for _, name := range IgnoreFiles {
		p := filepath.Join(root, name)
		f, err := os.Open(p) //nolint:gosec // G304: fixed names under the search root
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("path", p).Msg("failed to read ignore file")
			}
			continue
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			ig.Add(sc.Text())
		}
		f.Close()
	}
	return ig
}

// Add parses one gitignore line. Blank lines, comments and patterns that do
// not compile are dropped.
func (ig *Ignore) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	var r ignoreRule
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	// A slash anywhere but at the end anchors the pattern to the root.
	anchored := strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return
	}
	re, err := globRegexp(line, anchored)
	if err != nil {
		return
	}
	r.re = re
	ig.rules = append(ig.rules, r)
}

// Ignored reports whether rel (relative to the root) is ignored.
func (ig *Ignore) Ignored(rel string, isDir bool) bool {
	if ig == nil || len(ig.rules) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	ignored := false
	for _, r := range ig.rules {
		target := rel
		if r.dirOnly && !isDir {
			// A file is covered by a directory rule through its parent.
			target = path.Dir(rel)
			if target == "." {
				continue
			}
		}
		if r.re.MatchString(target) {
			ignored = !r.negate
		}
	}
	return ignored
}

// globRegexp compiles a gitignore glob. Matching a path also matches
// everything below it.
func globRegexp(glob string, anchored bool) (*regexp.Regexp, error) {
	var b strings.Builder
	if anchored {
		b.WriteString("^")
	} else {
		b.WriteString("(^|/)")
	}
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			switch {
			case strings.HasPrefix(glob[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 2
			case strings.HasPrefix(glob[i:], "**"):
				b.WriteString(".*")
				i++
			default:
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '[':
			j := strings.IndexByte(glob[i:], ']')
			if j < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(glob[i : i+j+1])
			i += j
		case '\\':
			if i+1 < len(glob) {
				i++
				b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("(/.*)?$")
	return regexp.Compile(b.String())
}
