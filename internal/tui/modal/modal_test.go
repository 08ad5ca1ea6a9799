package modal

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

var testColors = Colors{Dim: "#666666", SelFg: "#ffffff", SelBg: "#444444", Border: "#555555"}

func fruits(query string) []Item {
	return Filter([]Item{
		{Name: "apple", Desc: "red"},
		{Name: "banana", Desc: "yellow"},
		{Name: "cherry", Desc: "red"},
	})(query)
}

func key(ch rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: ch, Text: string(ch)}
}

func special(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	default:
		return tea.KeyPressMsg{}
	}
}

func TestEscapeCloses(t *testing.T) {
	m := New(fruits, "> ", testColors)
	a, _ := m.HandleMsg(special("esc"))
	if _, ok := a.(ActionClose); !ok {
		t.Fatalf("expected ActionClose, got %T", a)
	}
}

func TestEnterSelectsFirst(t *testing.T) {
	m := New(fruits, "> ", testColors)
	a, _ := m.HandleMsg(special("enter"))
	sel, ok := a.(ActionSelect)
	if !ok {
		t.Fatalf("expected ActionSelect, got %T", a)
	}
	if sel.Item.Name != "apple" {
		t.Fatalf("expected apple, got %s", sel.Item.Name)
	}
}

func TestDownThenEnterSelectsHighlighted(t *testing.T) {
	m := New(fruits, "> ", testColors)
	m.HandleMsg(special("down")) // enter list, selected=0
	m.HandleMsg(special("down")) // selected=1
	a, _ := m.HandleMsg(special("enter"))
	sel, ok := a.(ActionSelect)
	if !ok || sel.Item.Name != "banana" {
		t.Fatalf("expected banana, got %#v", a)
	}
}

func TestUpFromTopReturnsFocusToInput(t *testing.T) {
	m := New(fruits, "> ", testColors)
	m.HandleMsg(special("down"))
	if !m.inList {
		t.Fatal("expected inList=true")
	}
	m.HandleMsg(special("up"))
	if m.inList {
		t.Fatal("expected inList=false")
	}
}

func TestTypingProducesDebounceCmd(t *testing.T) {
	m := New(fruits, "> ", testColors)
	_, cmd := m.HandleMsg(key('a'))
	if cmd == nil {
		t.Fatal("expected debounce cmd")
	}
	if m.Query() != "a" {
		t.Fatalf("expected input 'a', got %q", m.Query())
	}
}

func TestDebounceFiresSearch(t *testing.T) {
	var queries []string
	m := New(func(q string) []Item {
		queries = append(queries, q)
		return nil
	}, "> ", testColors)
	m.HandleMsg(key('x'))
	m.HandleMsg(debounceMsg{id: m, seq: m.seq})
	if len(queries) != 2 || queries[1] != "x" {
		t.Fatalf("queries = %q", queries)
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	calls := 0
	m := New(func(q string) []Item {
		if q != "" {
			calls++
		}
		return nil
	}, "> ", testColors)
	m.HandleMsg(key('a'))
	stale := m.seq
	m.HandleMsg(key('b'))
	m.HandleMsg(debounceMsg{id: m, seq: stale})
	other := New(fruits, "> ", testColors)
	m.HandleMsg(debounceMsg{id: other, seq: m.seq})
	if calls != 0 {
		t.Fatalf("expected 0 search calls, got %d", calls)
	}
}

func TestStaticFiltersImmediately(t *testing.T) {
	m := NewStatic([]Item{{Name: "ctrl+f", Desc: "find"}, {Name: "ctrl+s", Desc: "save"}}, "Keys: ", testColors)
	m.HandleMsg(key('s'))
	m.HandleMsg(key('a'))
	if got := m.Items(); len(got) != 1 || got[0].Name != "ctrl+s" {
		t.Fatalf("Items() = %v", got)
	}
	m.HandleMsg(special("backspace"))
	m.HandleMsg(special("backspace"))
	if len(m.Items()) != 2 {
		t.Errorf("cleared query lists %d items", len(m.Items()))
	}
}

func TestViewRenders(t *testing.T) {
	m := New(fruits, "> ", testColors)
	m.Title = "Open file"
	v := m.View(100, 40)
	if !strings.Contains(v, "Open file") || !strings.Contains(v, "banana") {
		t.Fatal("view misses title or items")
	}
}

func TestEmptyResultsEnterNoAction(t *testing.T) {
	m := New(func(string) []Item { return nil }, "> ", testColors)
	a, _ := m.HandleMsg(special("enter"))
	if a != nil {
		t.Fatalf("expected nil action, got %T", a)
	}
}

func TestConfirmButtons(t *testing.T) {
	c := NewConfirm("Save changes?", "+a\n-b", []string{"Save", "Discard", "Cancel"}, testColors)
	c.HandleMsg(special("right"))
	c.HandleMsg(special("right"))
	c.HandleMsg(special("right"))
	if c.Focused() != 0 {
		t.Fatalf("focus did not wrap: %d", c.Focused())
	}
	a, _ := c.HandleMsg(special("enter"))
	if ch, ok := a.(ActionChoose); !ok || ch.Index != 0 {
		t.Fatalf("enter = %#v", a)
	}
	a, _ = c.HandleMsg(key('d'))
	if ch, ok := a.(ActionChoose); !ok || ch.Index != 1 {
		t.Fatalf("d = %#v", a)
	}
	a, _ = c.HandleMsg(special("esc"))
	if _, ok := a.(ActionClose); !ok {
		t.Fatalf("esc = %#v", a)
	}
	if v := c.View(80, 24); !strings.Contains(v, "Discard") {
		t.Error("view misses buttons")
	}
}
