package widget

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tokenfield/field"
	"github.com/iw2rmb/tokenfield/search"
)

func TestView_PlaceholderWhenEmpty(t *testing.T) {
	m := newModel(field.Config{Prompt: "To:", Placeholder: "name"}).Focus()
	if got, want := viewLines(m.View()), []string{"To: name"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("view: got %q, want %q", got, want)
	}
}

func TestView_WrapsChips(t *testing.T) {
	m := newModel(field.Config{Width: 20}).Focus()
	m = typeKeys(m, "aaaa,bbbb,")

	want := []string{"  aaaa   bbbb", ""}
	if got := viewLines(m.View()); !reflect.DeepEqual(got, want) {
		t.Fatalf("view: got %q, want %q", got, want)
	}
}

func TestView_MaxHeightScrollsToCaret(t *testing.T) {
	m := New(Config{
		Field:     field.Config{Width: 20},
		Style:     plainStyle(),
		MaxHeight: 1,
	}).Focus()
	m = typeKeys(m, "aaaa,bbbb,cc")

	lines := viewLines(m.View())
	if len(lines) != 1 || lines[0] != "cc" {
		t.Fatalf("view: got %q, want [\"cc\"]", lines)
	}
	if got := m.fieldRows(); got != 1 {
		t.Fatalf("rows: got %d, want 1", got)
	}
}

func TestView_ResultSubtitles(t *testing.T) {
	type person struct{ name, email string }
	m := newModel(field.Config{
		Width:  40,
		Source: []any{person{"Ann", "ann@x.io"}},
		Labels: search.Labels{
			Display:  func(o any) string { return o.(person).name },
			Subtitle: func(o any) (string, bool) { return o.(person).email, true },
		},
	}).Focus()
	m = typeKeys(m, "an")

	lines := viewLines(m.View())
	if len(lines) != 2 || lines[1] != "Ann  ann@x.io" {
		t.Fatalf("view: got %q", lines)
	}
}

func TestView_ResultWindowFollowsHighlight(t *testing.T) {
	m := New(Config{
		Field:         field.Config{Source: []any{"a1", "a2", "a3"}},
		Style:         plainStyle(),
		MaxResultRows: 2,
	}).Focus()
	m = typeKeys(m, "a")
	m = press(m, tea.KeyDown, tea.KeyDown)

	lines := viewLines(m.View())
	if got, want := lines[1:], []string{"a2", "a3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("rows: got %q, want %q", got, want)
	}
}

func TestOverlay_CompositesBelowField(t *testing.T) {
	m := New(Config{
		Field:   field.Config{Width: 10, Source: []any{"Alice", "Alicia"}},
		Style:   plainStyle(),
		Popover: true,
	}).Focus()
	m = typeKeys(m, "al")

	if got := viewLines(m.View()); len(got) != 1 {
		t.Fatalf("popover view should hold only the field, got %q", got)
	}

	bg := strings.Repeat(".", 10)
	bg = bg + "\n" + bg + "\n" + bg
	got := viewLines(m.Overlay(bg))
	want := []string{"..........", ".Alice ...", ".Alicia..."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("overlay: got %q, want %q", got, want)
	}
}

func TestOverlay_NoResultsKeepsBackground(t *testing.T) {
	m := newModel(field.Config{})
	if got := m.Overlay("bg"); got != "bg" {
		t.Fatalf("overlay: got %q, want %q", got, "bg")
	}
}
