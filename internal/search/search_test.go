package search

import (
	"reflect"
	"strings"
	"testing"

	"github.com/xonecas/vate/internal/buffer"
)

// fakeTabs is a tab strip of buffers; a nil entry is a tab that cannot be
// searched.
type fakeTabs struct {
	bufs   []*buffer.Buffer
	active int
}

func newTabs(texts ...string) *fakeTabs {
	ft := &fakeTabs{}
	for _, s := range texts {
		if s == "<info>" {
			ft.bufs = append(ft.bufs, nil)
			continue
		}
		ft.bufs = append(ft.bufs, buffer.FromString("", s))
	}
	return ft
}

func (f *fakeTabs) ActiveSearchable() (Target, int) {
	if f.active < 0 || f.active >= len(f.bufs) || f.bufs[f.active] == nil {
		return nil, -1
	}
	return f.bufs[f.active], f.active
}

func (f *fakeTabs) AllSearchable() []Target {
	out := make([]Target, len(f.bufs))
	for i, b := range f.bufs {
		if b != nil {
			out[i] = b
		}
	}
	return out
}

func (f *fakeTabs) Focus(t Target) {
	for i, b := range f.bufs {
		if b != nil && Target(b) == t {
			f.active = i
		}
	}
}

func selection(t *testing.T, b *buffer.Buffer) (int, int) {
	t.Helper()
	return b.Selection()
}

func TestFind(t *testing.T) {
	tests := []struct {
		text, pattern string
		want          []int
	}{
		{"aaa", "aa", []int{0, 1}},
		{"hello world", "", nil},
		{"hello world", "xyz", nil},
		{"abcabc", "abc", []int{0, 3}},
		{"ends with x", "x", []int{10}},
		{"x", "x", []int{0}},
		{"Case case", "case", []int{5}},
		{"über über", "über", []int{0, 5}},
		{"a.b", ".", []int{1}},
		{"ab", "abc", nil},
	}
	for _, tt := range tests {
		got := FindString(tt.text, tt.pattern)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Find(%q, %q) = %v, want %v", tt.text, tt.pattern, got, tt.want)
		}
	}
}

func TestFindOffsetsAreMatches(t *testing.T) {
	text := []rune(strings.Repeat("abababa ", 20))
	pat := []rune("aba")
	prev := -1
	for _, o := range Find(text, pat) {
		if o <= prev {
			t.Fatalf("offset %d not after %d", o, prev)
		}
		if string(text[o:o+len(pat)]) != string(pat) {
			t.Fatalf("text at %d is %q", o, string(text[o:o+len(pat)]))
		}
		prev = o
	}
}

func TestSearchSelectsFirstMatch(t *testing.T) {
	tabs := newTabs("one two one")
	s := NewSession(tabs)
	if s.State() != Idle {
		t.Fatalf("new session state = %v", s.State())
	}
	if st := s.Search("one"); st != HasResults {
		t.Fatalf("Search state = %v", st)
	}
	if s.Total() != 2 || s.Ordinal() != 1 {
		t.Errorf("Total/Ordinal = %d/%d, want 2/1", s.Total(), s.Ordinal())
	}
	if off, l := selection(t, tabs.bufs[0]); off != 0 || l != 3 {
		t.Errorf("selection = (%d, %d), want (0, 3)", off, l)
	}
	if s.Status() != "1 of 2" {
		t.Errorf("Status() = %q", s.Status())
	}
}

func TestSearchNoResults(t *testing.T) {
	tabs := newTabs("abc")
	s := NewSession(tabs)
	for _, p := range []string{"", "zzz"} {
		if st := s.Search(p); st != NoResults {
			t.Errorf("Search(%q) state = %v, want NoResults", p, st)
		}
		if s.Next() || s.Previous() {
			t.Errorf("navigation after Search(%q) reported a selection", p)
		}
		if s.Ordinal() != 0 {
			t.Errorf("Ordinal() = %d, want 0", s.Ordinal())
		}
	}
	if s.Status() != "No matches" {
		t.Errorf("Status() = %q", s.Status())
	}
}

func TestNavigationWraps(t *testing.T) {
	tabs := newTabs("x.x.x")
	s := NewSession(tabs)
	s.Search("x")

	var forward []int
	for i := 0; i < 4; i++ {
		s.Next()
		off, _ := selection(t, tabs.bufs[0])
		forward = append(forward, off)
	}
	if want := []int{2, 4, 0, 2}; !reflect.DeepEqual(forward, want) {
		t.Errorf("forward offsets = %v, want %v", forward, want)
	}

	s.Search("x")
	var backward []int
	for i := 0; i < 4; i++ {
		s.Previous()
		off, _ := selection(t, tabs.bufs[0])
		backward = append(backward, off)
	}
	if want := []int{4, 2, 0, 4}; !reflect.DeepEqual(backward, want) {
		t.Errorf("backward offsets = %v, want %v", backward, want)
	}
}

func TestActiveScopeIgnoresOtherTabs(t *testing.T) {
	tabs := newTabs("cat", "cat cat", "<info>")
	tabs.active = 1
	s := NewSession(tabs)
	s.Search("cat")
	if s.Total() != 2 {
		t.Fatalf("Total() = %d, want 2", s.Total())
	}
	for i := 0; i < 5; i++ {
		s.Next()
		m, _ := s.Current()
		if m.Target != Target(tabs.bufs[1]) {
			t.Fatalf("navigated into tab %d", m.Tab)
		}
	}
	if _, l := tabs.bufs[0].Selection(); l != 0 {
		t.Error("inactive buffer got a selection")
	}
	if tabs.active != 1 {
		t.Errorf("active tab changed to %d", tabs.active)
	}
}

func TestActiveScopeOnInfoTab(t *testing.T) {
	tabs := newTabs("cat", "<info>")
	tabs.active = 1
	s := NewSession(tabs)
	if st := s.Search("cat"); st != NoResults {
		t.Errorf("Search on info tab = %v, want NoResults", st)
	}
}

func TestAllTabsScopeCrossesTabs(t *testing.T) {
	tabs := newTabs("a-a", "<info>", "b", "a")
	s := NewSession(tabs)
	s.SetScope(AllTabs)
	s.Search("a")
	if s.Total() != 3 {
		t.Fatalf("Total() = %d, want 3", s.Total())
	}

	type pos struct{ tab, off int }
	var got []pos
	for i := 0; i < 4; i++ {
		m, _ := s.Current()
		got = append(got, pos{tabs.active, m.Offset})
		s.Next()
	}
	want := []pos{{0, 0}, {0, 2}, {3, 0}, {0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visited %v, want %v", got, want)
	}

	s.Search("a")
	s.Previous()
	if tabs.active != 3 {
		t.Errorf("Previous from first match activated tab %d, want 3", tabs.active)
	}
}

func TestSetScopeRerunsSearch(t *testing.T) {
	tabs := newTabs("dog", "dog dog")
	s := NewSession(tabs)
	s.SetScope(AllTabs)
	if s.State() != Idle {
		t.Fatal("SetScope before a search must not search")
	}
	s.SetScope(ActiveTab)
	s.Search("dog")
	if s.Total() != 1 {
		t.Fatalf("active Total() = %d, want 1", s.Total())
	}
	s.SetScope(AllTabs)
	if s.Total() != 3 || s.Ordinal() != 1 {
		t.Errorf("after SetScope(AllTabs) Total/Ordinal = %d/%d, want 3/1", s.Total(), s.Ordinal())
	}
}

func TestStaleSelectionIsNotApplied(t *testing.T) {
	tabs := newTabs("abc abc")
	s := NewSession(tabs)
	s.Search("abc")
	if err := tabs.bufs[0].Delete(2, 5); err != nil {
		t.Fatal(err)
	}
	if s.Next() {
		t.Error("Next selected a range past the end")
	}
	if s.Applied() {
		t.Error("Applied() = true")
	}
}

func TestReplaceOne(t *testing.T) {
	b := buffer.FromString("", "foo bar foo")
	ok, err := ReplaceOne(b, FindString(b.Text(), "foo"), 0, "foo", "baz")
	if err != nil || !ok {
		t.Fatalf("ReplaceOne = %v, %v", ok, err)
	}
	if b.Text() != "baz bar foo" {
		t.Errorf("Text() = %q", b.Text())
	}
	if got := FindString(b.Text(), "foo"); !reflect.DeepEqual(got, []int{8}) {
		t.Errorf("rescan = %v, want [8]", got)
	}
	if !b.Dirty() {
		t.Error("buffer not dirty after replace")
	}
	if ok, _ := ReplaceOne(b, []int{8}, 3, "foo", "x"); ok {
		t.Error("out of range cursor replaced")
	}
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		text, pat, repl, want string
		n                     int
	}{
		{"aXaXa", "X", "YY", "aYYaYYa", 2},
		{"aXXaXX", "XX", "", "aa", 2},
		{"foo foo", "foo", "f", "f f", 2},
		{"aaa", "aa", "b", "ba", 1},
		{"nothing", "zz", "y", "nothing", 0},
	}
	for _, tt := range tests {
		b := buffer.FromString("", tt.text)
		n, err := ReplaceAll(b, FindString(tt.text, tt.pat), tt.pat, tt.repl)
		if err != nil {
			t.Fatal(err)
		}
		if n != tt.n || b.Text() != tt.want {
			t.Errorf("ReplaceAll(%q, %q→%q) = %d %q, want %d %q", tt.text, tt.pat, tt.repl, n, b.Text(), tt.n, tt.want)
		}
		if b.Dirty() != (tt.n > 0) {
			t.Errorf("%q: Dirty() = %v", tt.text, b.Dirty())
		}
	}
}

// splicePoints records the offsets a replace-all splices at.
type splicePoints struct {
	*buffer.Buffer
	at []int
}

func (s *splicePoints) Splice(start, length int, repl string) error {
	s.at = append(s.at, start)
	return s.Buffer.Splice(start, length, repl)
}

func TestReplaceAllSplicePoints(t *testing.T) {
	sp := &splicePoints{Buffer: buffer.FromString("", "aXaXa")}
	if _, err := ReplaceAll(sp, []int{1, 3}, "X", "YY"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sp.at, []int{1, 4}) {
		t.Errorf("splice points = %v, want [1 4]", sp.at)
	}
}

func TestSessionReplaceCurrentKeepsOrdinal(t *testing.T) {
	tabs := newTabs("foo bar foo")
	s := NewSession(tabs)
	s.Search("foo")
	ok, err := s.ReplaceCurrent("baz")
	if err != nil || !ok {
		t.Fatalf("ReplaceCurrent = %v, %v", ok, err)
	}
	if tabs.bufs[0].Text() != "baz bar foo" {
		t.Errorf("Text() = %q", tabs.bufs[0].Text())
	}
	if s.Total() != 1 || s.Ordinal() != 1 {
		t.Errorf("Total/Ordinal = %d/%d, want 1/1", s.Total(), s.Ordinal())
	}
	if off, l := tabs.bufs[0].Selection(); off != 8 || l != 3 {
		t.Errorf("selection = (%d, %d), want (8, 3)", off, l)
	}

	if _, err := s.ReplaceCurrent("baz"); err != nil {
		t.Fatal(err)
	}
	if s.State() != NoResults {
		t.Errorf("State() = %v, want NoResults", s.State())
	}
	if ok, _ := s.ReplaceCurrent("baz"); ok {
		t.Error("ReplaceCurrent without results replaced")
	}
}

func TestSessionReplaceCurrentMiddle(t *testing.T) {
	tabs := newTabs("a1 a2 a3")
	s := NewSession(tabs)
	s.Search("a")
	s.Next()
	if _, err := s.ReplaceCurrent("b"); err != nil {
		t.Fatal(err)
	}
	if tabs.bufs[0].Text() != "a1 b2 a3" {
		t.Errorf("Text() = %q", tabs.bufs[0].Text())
	}
	if off, _ := tabs.bufs[0].Selection(); off != 6 {
		t.Errorf("selected %d, want the match that followed at 6", off)
	}
	if s.Ordinal() != 2 {
		t.Errorf("Ordinal() = %d, want 2", s.Ordinal())
	}
}

func TestSessionReplaceCurrentStale(t *testing.T) {
	tabs := newTabs("xx foo")
	s := NewSession(tabs)
	s.Search("foo")
	_ = tabs.bufs[0].Delete(0, 3)
	ok, err := s.ReplaceCurrent("bar")
	if err != nil || ok {
		t.Fatalf("ReplaceCurrent on stale results = %v, %v", ok, err)
	}
	if tabs.bufs[0].Text() != "foo" {
		t.Errorf("Text() = %q, want unchanged", tabs.bufs[0].Text())
	}
	if m, _ := s.Current(); m.Offset != 0 {
		t.Errorf("results not refreshed, offset %d", m.Offset)
	}
}

func TestSessionReplaceAllTabs(t *testing.T) {
	tabs := newTabs("cat", "<info>", "cat cat")
	s := NewSession(tabs)
	s.SetScope(AllTabs)
	s.Search("cat")
	n, err := s.ReplaceAll("dog")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("replaced %d, want 3", n)
	}
	if tabs.bufs[0].Text() != "dog" || tabs.bufs[2].Text() != "dog dog" {
		t.Errorf("texts = %q, %q", tabs.bufs[0].Text(), tabs.bufs[2].Text())
	}
	if s.State() != NoResults {
		t.Errorf("State() = %v after replace all", s.State())
	}
}

func TestSessionReplaceAllActiveOnly(t *testing.T) {
	tabs := newTabs("cat", "cat")
	tabs.active = 1
	s := NewSession(tabs)
	s.Search("cat")
	if n, _ := s.ReplaceAll("cow"); n != 1 {
		t.Errorf("replaced %d, want 1", n)
	}
	if tabs.bufs[0].Text() != "cat" {
		t.Error("inactive tab was modified")
	}
}

func TestSessionReplaceAllStale(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(b *buffer.Buffer) error
		want  string
		count int
	}{
		{"text inserted before matches", func(b *buffer.Buffer) error { return b.Insert(0, "XX") }, "XXbaz bar baz", 2},
		{"text shrank below old offsets", func(b *buffer.Buffer) error { return b.Delete(0, 8) }, "baz", 1},
		{"matches removed", func(b *buffer.Buffer) error { return b.Delete(0, 11) }, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tabs := newTabs("foo bar foo")
			s := NewSession(tabs)
			s.Search("foo")
			if err := tt.edit(tabs.bufs[0]); err != nil {
				t.Fatal(err)
			}
			n, err := s.ReplaceAll("baz")
			if err != nil {
				t.Fatalf("ReplaceAll error: %v", err)
			}
			if n != tt.count {
				t.Errorf("replaced %d, want %d", n, tt.count)
			}
			if got := tabs.bufs[0].Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionReplaceAllWithoutSearch(t *testing.T) {
	tabs := newTabs("foo")
	s := NewSession(tabs)
	if n, _ := s.ReplaceAll("bar"); n != 0 || tabs.bufs[0].Text() != "foo" {
		t.Errorf("idle ReplaceAll replaced %d, text %q", n, tabs.bufs[0].Text())
	}
}

func TestActiveScopeFollowsTabSwitch(t *testing.T) {
	t.Run("replace all", func(t *testing.T) {
		tabs := newTabs("cat", "cat")
		s := NewSession(tabs)
		s.Search("cat")
		tabs.active = 1
		n, err := s.ReplaceAll("dog")
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("replaced %d, want 1", n)
		}
		if tabs.bufs[0].Text() != "cat" || tabs.bufs[1].Text() != "dog" {
			t.Errorf("texts = %q, %q; want cat, dog", tabs.bufs[0].Text(), tabs.bufs[1].Text())
		}
	})

	t.Run("navigation", func(t *testing.T) {
		tabs := newTabs("cat", "a cat")
		s := NewSession(tabs)
		s.Search("cat")
		tabs.active = 1
		if !s.Next() {
			t.Fatal("Next did not select a match")
		}
		if start, n := selection(t, tabs.bufs[1]); start != 2 || n != 3 {
			t.Errorf("selection in active tab = %d+%d, want 2+3", start, n)
		}
		if m, _ := s.Current(); m.Target != Target(tabs.bufs[1]) {
			t.Error("current match belongs to a hidden tab")
		}
		if tabs.active != 1 {
			t.Errorf("active = %d, want 1", tabs.active)
		}
	})

	t.Run("replace current", func(t *testing.T) {
		tabs := newTabs("cat", "cat")
		s := NewSession(tabs)
		s.Search("cat")
		tabs.active = 1
		ok, err := s.ReplaceCurrent("dog")
		if err != nil || ok {
			t.Fatalf("ReplaceCurrent after tab switch = %v, %v", ok, err)
		}
		if tabs.bufs[0].Text() != "cat" || tabs.bufs[1].Text() != "cat" {
			t.Errorf("texts = %q, %q; want both unchanged", tabs.bufs[0].Text(), tabs.bufs[1].Text())
		}
		if ok, _ := s.ReplaceCurrent("dog"); !ok || tabs.bufs[1].Text() != "dog" {
			t.Errorf("second ReplaceCurrent = %v, text %q", ok, tabs.bufs[1].Text())
		}
	})
}

func TestReset(t *testing.T) {
	s := NewSession(newTabs("a"))
	s.SetScope(AllTabs)
	s.Search("a")
	s.Reset()
	if s.State() != Idle || s.Total() != 0 || s.Status() != "" {
		t.Errorf("after Reset: state=%v total=%d status=%q", s.State(), s.Total(), s.Status())
	}
	if s.Scope() != AllTabs {
		t.Error("Reset changed the scope")
	}
}
