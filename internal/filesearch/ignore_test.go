package filesearch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreRules(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		// Simple patterns
		{"*.log", "test.log", false, true},
		{"*.log", "test.txt", false, false},
		{"*.log", "logs/test.log", false, true},

		// Directory patterns
		{"node_modules/", "node_modules", true, true},
		{"node_modules/", "node_modules/package.json", false, true},
		{"node_modules/", "src/node_modules", true, true},
		{"out/", "out", false, false},

		// A middle slash anchors
		{"build/*", "build/output.txt", false, true},
		{"build/*", "build", true, false},
		{"build/*", "src/build/output.txt", false, false},

		// Double asterisk
		{"**/temp", "temp", false, true},
		{"**/temp", "src/lib/temp", false, true},
		{"docs/**/*.md", "docs/a/b/c.md", false, true},

		// Leading slash (root-only)
		{"/root.txt", "root.txt", false, true},
		{"/root.txt", "src/root.txt", false, false},

		// Escapes and classes
		{`\#hash`, "#hash", false, true},
		{"file[0-9].txt", "file7.txt", false, true},
		{"file[0-9].txt", "filex.txt", false, false},
		{"a+b.txt", "a+b.txt", false, true},
	}

	for _, tt := range tests {
		ig := &Ignore{}
		ig.Add(tt.pattern)
		if got := ig.Ignored(tt.path, tt.isDir); got != tt.want {
			t.Errorf("pattern %q, path %q (isDir=%v): got %v, want %v",
				tt.pattern, tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestIgnoreNegationOrder(t *testing.T) {
	ig := &Ignore{}
	for _, l := range []string{"# comment", "", "*.log", "!important.log"} {
		ig.Add(l)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"test.log", true},
		{"important.log", false},
		{"other.txt", false},
	}
	for _, tt := range tests {
		if got := ig.Ignored(tt.path, false); got != tt.want {
			t.Errorf("path %q: got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.tmp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".vateignore"), []byte("!keep.tmp\nsecret/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ig := LoadIgnore(root)
	if !ig.Ignored("x.tmp", false) || ig.Ignored("keep.tmp", false) || !ig.Ignored("secret/k", false) {
		t.Errorf("rules from both files not applied: %+v", ig.rules)
	}
	if LoadIgnore(t.TempDir()).Ignored("anything", false) {
		t.Error("empty root ignores files")
	}
}
