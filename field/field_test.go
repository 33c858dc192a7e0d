package field

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/search"
	"github.com/iw2rmb/tokenfield/token"
)

// typeText feeds s to the field one rune at a time at the end of the buffer,
// the way a host forwards keystrokes.
func typeText(f *Field, s string) {
	for _, r := range s {
		f.HandleReplacement(Range{Start: utf8.RuneCountInString(f.Text())}, string(r))
	}
}

func backspace(f *Field) bool {
	n := utf8.RuneCountInString(f.Text())
	if n == 0 {
		return f.HandleReplacement(Range{}, "")
	}
	return f.HandleReplacement(Range{Start: n - 1, Length: 1}, "")
}

func TestNew_Defaults(t *testing.T) {
	f := New(Config{})

	if got := f.State(); got != (TextState{Mode: Empty}) {
		t.Fatalf("state: got %v, want empty", got)
	}
	if got := f.HostText(); got != SentinelEmpty {
		t.Fatalf("host text: got %q, want %q", got, SentinelEmpty)
	}
	if got := f.NumberOfLines(); got != 1 {
		t.Fatalf("lines: got %d, want 1", got)
	}
	if f.ID() == "" {
		t.Fatalf("id: got empty")
	}
	if got := f.Tint(); got != token.BlueTint {
		t.Fatalf("tint: got %v, want %v", got, token.BlueTint)
	}
	if f.Editing() || f.Collapsed() || f.ResultsMode() {
		t.Fatalf("flags: editing=%v collapsed=%v results=%v, want all false", f.Editing(), f.Collapsed(), f.ResultsMode())
	}
}

func TestTyping_DelimitersTokenize(t *testing.T) {
	f := New(Config{})
	f.BeginEditing()

	typeText(f, "a, b ,c")
	if got, want := f.Titles(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles after typing: got %v, want %v", got, want)
	}
	if got := f.Text(); got != "c" {
		t.Fatalf("text: got %q, want %q", got, "c")
	}

	added := f.TokenizeText()
	if len(added) != 1 || added[0].Title != "c" {
		t.Fatalf("tokenize: got %v, want [c]", added)
	}
	if got, want := f.Titles(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if got := f.State().Mode; got != Empty {
		t.Fatalf("mode: got %v, want %v", got, Empty)
	}
}

func TestTokenizeText_SplitsOnEveryDelimiter(t *testing.T) {
	f := New(Config{ForcePick: true})
	typeText(f, "a, b ,c")
	if got := f.Text(); got != "a, b ,c" {
		t.Fatalf("force pick text: got %q", got)
	}
	if got := f.TokenizeText(); got != nil {
		t.Fatalf("tokenize with force pick: got %v, want nil", got)
	}

	f.SetForcePick(false)
	f.TokenizeText()
	if got, want := f.Titles(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if got := f.Text(); got != "" {
		t.Fatalf("text: got %q, want empty", got)
	}
}

func TestTokenizeText_CustomDelimitersAndBlankSegments(t *testing.T) {
	f := New(Config{Delimiters: []rune{';'}, ForcePick: true})
	typeText(f, " ; ;")
	f.SetForcePick(false)

	if got := f.TokenizeText(); got != nil {
		t.Fatalf("tokenize: got %v, want nil", got)
	}
	if got := f.State().Mode; got != Empty {
		t.Fatalf("blank segments should clear the buffer: mode %v", got)
	}
}

func TestTokenizeText_AllVetoedKeepsText(t *testing.T) {
	f := New(Config{Delegate: Hooks{WillAdd: func(*token.Token) bool { return false }}})
	typeText(f, "zed")
	if got := f.TokenizeText(); got != nil {
		t.Fatalf("tokenize: got %v, want nil", got)
	}
	if got := f.Text(); got != "zed" {
		t.Fatalf("text: got %q, want %q", got, "zed")
	}
}

func TestBackspace_SelectsThenRemoves(t *testing.T) {
	f := New(Config{})
	f.AddTitle("a", nil)
	b := f.AddTitle("b", nil)

	if backspace(f) {
		t.Fatalf("first backspace should be absorbed")
	}
	if got := f.Selected(); got != b {
		t.Fatalf("selected: got %v, want %v", got, b)
	}
	if !b.Selected() {
		t.Fatalf("token flag not set")
	}
	if got := f.HostText(); got != SentinelHidden {
		t.Fatalf("host text: got %q, want hidden sentinel", got)
	}

	if backspace(f) {
		t.Fatalf("second backspace should be absorbed")
	}
	if got, want := f.Titles(), []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if got := f.State().Mode; got != Empty {
		t.Fatalf("mode: got %v, want %v", got, Empty)
	}
	if f.Selected() != nil || b.Selected() {
		t.Fatalf("selection should be cleared")
	}
}

func TestBackspace_EmptyFieldWithoutTokens(t *testing.T) {
	f := New(Config{})
	if !backspace(f) {
		t.Fatalf("plain edit should be applied")
	}
	if got := f.State().Mode; got != Empty {
		t.Fatalf("mode: got %v, want %v", got, Empty)
	}
}

func TestTypingOverSelectedToken(t *testing.T) {
	f := New(Config{})
	f.AddTitle("a", nil)
	b := f.AddTitle("b", nil)
	f.SelectToken(b)

	if !f.HandleReplacement(Range{Start: 0, Length: 1}, "x") {
		t.Fatalf("typed replacement should be applied")
	}
	if got, want := f.Titles(), []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if got := f.State(); got != (TextState{Mode: Editing, Text: "x"}) {
		t.Fatalf("state: got %v, want editing x", got)
	}
}

func TestRemoveVetoStillDeselects(t *testing.T) {
	f := New(Config{Delegate: Hooks{WillRemove: func(*token.Token) bool { return false }}})
	a := f.AddTitle("a", nil)
	f.SelectToken(a)

	if f.RemoveToken(a) {
		t.Fatalf("remove: got true, want vetoed")
	}
	if f.Selected() != nil {
		t.Fatalf("selection should be cleared before the veto")
	}
	if got := f.State().Mode; got != Empty {
		t.Fatalf("mode: got %v, want %v", got, Empty)
	}
}

func TestReadOnlyIgnoresEdits(t *testing.T) {
	f := New(Config{ReadOnly: true})
	if f.BeginEditing() {
		t.Fatalf("begin editing: got true, want false")
	}
	if f.HandleReplacement(Range{}, "a") {
		t.Fatalf("edit: got true, want false")
	}
	f.SetReadOnly(false)
	if !f.BeginEditing() {
		t.Fatalf("begin editing after SetReadOnly(false): got false")
	}
}

func TestAddToken_DelegateThenObservers(t *testing.T) {
	var order []string
	f := New(Config{Delegate: Hooks{
		WillAdd: func(*token.Token) bool {
			order = append(order, "delegate")
			return true
		},
	}})
	f.Bus().Observe(Hooks{
		WillAdd: func(*token.Token) bool {
			order = append(order, "observer")
			return true
		},
		DidAdd: func(*token.Token) { order = append(order, "did") },
	})

	f.AddTitle("a", nil)
	if got, want := order, []string{"delegate", "observer", "did"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order: got %v, want %v", got, want)
	}
}

func TestAddToken_ObserverVetoAndCancel(t *testing.T) {
	f := New(Config{})
	cancel := f.Bus().Observe(Hooks{
		WillAdd: func(t *token.Token) bool { return t.Title != "bob" },
	})

	if got := f.AddTitle("bob", nil); got != nil {
		t.Fatalf("vetoed add: got %v, want nil", got)
	}
	if f.AddTitle("ann", nil) == nil {
		t.Fatalf("accepted add returned nil")
	}

	cancel()
	cancel()
	if f.AddTitle("bob", nil) == nil {
		t.Fatalf("add after cancel returned nil")
	}
	if got, want := f.Titles(), []string{"ann", "bob"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
}

func TestAddToken_DidAddOnlyOnInsert(t *testing.T) {
	did := 0
	f := New(Config{Delegate: Hooks{DidAdd: func(*token.Token) { did++ }}})
	tok := token.New("a", nil)

	if !f.AddToken(tok) || !f.AddToken(tok) {
		t.Fatalf("add: want both accepted")
	}
	if did != 1 {
		t.Fatalf("did add: got %d, want 1", did)
	}
	if got := len(f.Tokens()); got != 1 {
		t.Fatalf("tokens: got %d, want 1", got)
	}
}

func TestAddToken_AppliesFieldStyleBeforeDidAdd(t *testing.T) {
	f := New(Config{
		Tint: token.GreenTint,
		Delegate: Hooks{DidAdd: func(t *token.Token) {
			if strings.HasPrefix(t.Title, "!") {
				t.Tint = token.RedTint
			}
		}},
	})
	ok := f.AddTitle("ok", nil)
	bad := f.AddTitle("!bad", nil)
	if ok.Tint != token.GreenTint || bad.Tint != token.RedTint {
		t.Fatalf("tints: got %v/%v", ok.Tint, bad.Tint)
	}

	f.SetTint(token.BlueTint)
	if ok.Tint != token.BlueTint || bad.Tint != token.BlueTint {
		t.Fatalf("SetTint: got %v/%v", ok.Tint, bad.Tint)
	}
}

func TestAddToken_SanitizesTitle(t *testing.T) {
	f := New(Config{})
	tok := token.New("a"+SentinelHidden+"b", nil)
	f.AddToken(tok)
	if tok.Title != "ab" {
		t.Fatalf("title: got %q, want %q", tok.Title, "ab")
	}
}

func TestInvalidInputIsIgnored(t *testing.T) {
	f := New(Config{})
	stranger := token.New("x", nil)

	if f.AddTitle("   ", nil) != nil || f.AddTitle(SentinelEmpty, nil) != nil {
		t.Fatalf("blank titles should be rejected")
	}
	if f.AddToken(token.New("   ", nil)) || f.AddToken(token.New(SentinelEmpty, nil)) {
		t.Fatalf("blank tokens should be rejected")
	}
	if f.AddToken(nil) || f.RemoveToken(nil) || f.RemoveToken(stranger) {
		t.Fatalf("nil or absent tokens should be rejected")
	}
	if f.SelectToken(stranger) || f.SelectToken(nil) {
		t.Fatalf("selecting an absent token should fail")
	}
	if f.PickResult(0) != nil || f.PickResult(-1) != nil {
		t.Fatalf("picking without results should fail")
	}
	if len(f.Tokens()) != 0 {
		t.Fatalf("tokens: got %v, want none", f.Tokens())
	}
}

func TestRemoveAll(t *testing.T) {
	removed := 0
	f := New(Config{Delegate: Hooks{DidRemove: func(*token.Token) { removed++ }}})
	f.AddTitle("a", nil)
	f.AddTitle("b", nil)
	f.RemoveAll()

	if len(f.Tokens()) != 0 || removed != 2 {
		t.Fatalf("remove all: tokens=%v removed=%d", f.Tokens(), removed)
	}
}

func TestValues(t *testing.T) {
	f := New(Config{})
	obj := &struct{ id int }{id: 7}
	f.AddTitle("x", obj)
	f.AddTitle("y", nil)

	got := f.Values()
	if len(got) != 2 || got[0] != any(obj) || got[1] != any("y") {
		t.Fatalf("values: got %v", got)
	}
}

func TestEndEditing_TokenizesAndCollapses(t *testing.T) {
	f := New(Config{Placeholder: "To whom"})
	f.BeginEditing()
	f.AddTitle("ann", nil)
	typeText(f, "bob")
	f.EndEditing()

	if got, want := f.Titles(), []string{"ann", "bob"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if !f.Collapsed() || f.Editing() {
		t.Fatalf("collapsed=%v editing=%v, want collapsed and not editing", f.Collapsed(), f.Editing())
	}
	if got := f.HostText(); got != "ann, bob" {
		t.Fatalf("summary: got %q, want %q", got, "ann, bob")
	}
	if got := len(f.Layout().Placements); got != 0 {
		t.Fatalf("collapsed placements: got %d, want 0", got)
	}
	if f.PlaceholderVisible() {
		t.Fatalf("placeholder visible with tokens")
	}
}

func TestEndEditing_SummaryFallsBackToCount(t *testing.T) {
	f := New(Config{Width: 10})
	f.AddTitle("alice", nil)
	f.AddTitle("bobby", nil)
	f.EndEditing()
	if got := f.Summary(); got != "2 recipients" {
		t.Fatalf("summary: got %q, want %q", got, "2 recipients")
	}

	g := New(Config{Width: 10, SummaryFormat: func(n int) string { return fmt.Sprintf("%d people", n) }})
	g.AddTitle("alice", nil)
	g.AddTitle("bobby", nil)
	g.EndEditing()
	if got := g.Summary(); got != "2 people" {
		t.Fatalf("summary: got %q, want %q", got, "2 people")
	}

	h := New(Config{Width: 10})
	h.AddTitle("a-very-long-name", nil)
	h.EndEditing()
	if got := h.Summary(); got != "a-very-long-name" {
		t.Fatalf("single token summary: got %q", got)
	}
}

func TestBeginEditing_ReattachesCollapsedTokens(t *testing.T) {
	willAdd, didAdd, began := 0, 0, 0
	f := New(Config{Delegate: Hooks{
		WillAdd: func(*token.Token) bool {
			willAdd++
			return true
		},
		DidAdd:          func(*token.Token) { didAdd++ },
		DidBeginEditing: func() { began++ },
	}})
	f.AddTitle("a", nil)
	f.AddTitle("b", nil)
	f.EndEditing()

	if !f.BeginEditing() {
		t.Fatalf("begin editing: got false")
	}
	if f.Collapsed() || f.Summary() != "" {
		t.Fatalf("still collapsed: summary %q", f.Summary())
	}
	if got := len(f.Layout().Placements); got != 2 {
		t.Fatalf("placements: got %d, want 2", got)
	}
	if willAdd != 4 || didAdd != 2 || began != 1 {
		t.Fatalf("hooks: willAdd=%d didAdd=%d began=%d, want 4/2/1", willAdd, didAdd, began)
	}
}

func TestDisableAutoCollapse(t *testing.T) {
	ended := false
	f := New(Config{DisableAutoCollapse: true, Delegate: Hooks{DidEndEditing: func() { ended = true }}})
	f.BeginEditing()
	f.AddTitle("a", nil)
	f.EndEditing()
	if f.Collapsed() || !ended {
		t.Fatalf("collapsed=%v ended=%v", f.Collapsed(), ended)
	}
	if got := f.HostText(); got != SentinelEmpty {
		t.Fatalf("host text: got %q, want empty sentinel", got)
	}
}

func TestResize_FiresAroundHeightChanges(t *testing.T) {
	type change struct {
		kind     string
		from, to int
	}
	var got []change
	f := New(Config{
		Width: 20,
		Delegate: Hooks{
			WillResize: func(from, to int) { got = append(got, change{"will", from, to}) },
			DidResize:  func(from, to int) { got = append(got, change{"did", from, to}) },
		},
	})

	f.AddTitle("aaaa", nil)
	if len(got) != 0 {
		t.Fatalf("first token should fit: got %v", got)
	}
	f.AddTitle("bbbb", nil)
	want := []change{{"will", 1, 2}, {"did", 1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("resize: got %v, want %v", got, want)
	}
	if f.NumberOfLines() != 2 || f.Height() != 2 {
		t.Fatalf("lines=%d height=%d, want 2/2", f.NumberOfLines(), f.Height())
	}

	got = nil
	f.SetWidth(80)
	want = []change{{"will", 2, 1}, {"did", 2, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("resize after widen: got %v, want %v", got, want)
	}
}

func TestPromptShiftsChips(t *testing.T) {
	f := New(Config{})
	f.AddTitle("a", nil)
	if got := f.Layout().Placements[0].X; got != 1 {
		t.Fatalf("x: got %d, want 1", got)
	}
	f.SetPrompt("To:")
	if got := f.Layout().Placements[0].X; got != 4 {
		t.Fatalf("x with prompt: got %d, want 4", got)
	}
}

func TestPlaceholderVisible(t *testing.T) {
	f := New(Config{Placeholder: "Add people"})
	if !f.PlaceholderVisible() {
		t.Fatalf("placeholder should show on an empty field")
	}
	typeText(f, "a")
	if f.PlaceholderVisible() {
		t.Fatalf("placeholder should hide while typing")
	}
	f.SetPlaceholder("")
	backspace(f)
	if f.PlaceholderVisible() {
		t.Fatalf("empty placeholder should never show")
	}
}

func TestSearch_LocalResultsAndPick(t *testing.T) {
	var completed [][]any
	f := New(Config{
		Source:   []any{"Bob", "Alicia", "Alice"},
		Delegate: Hooks{SearchCompleted: func(r []any) { completed = append(completed, r) }},
	})
	f.BeginEditing()
	typeText(f, "al")

	if !f.ResultsMode() {
		t.Fatalf("results mode: got false")
	}
	if got, want := f.Search().Results(), []any{"Alice", "Alicia"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("results: got %v, want %v", got, want)
	}
	if len(completed) != 2 {
		t.Fatalf("search completed: got %d calls, want 2", len(completed))
	}

	tok := f.PickResult(1)
	if tok == nil || tok.Title != "Alicia" || tok.Object != any("Alicia") {
		t.Fatalf("picked: got %v", tok)
	}
	if f.ResultsMode() || f.Text() != "" || f.Search().Results() != nil {
		t.Fatalf("after pick: results=%v text=%q", f.ResultsMode(), f.Text())
	}

	typeText(f, "al")
	if got, want := f.Search().Results(), []any{"Alice"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenized objects should be hidden: got %v, want %v", got, want)
	}
}

func TestSearch_ResultsModeNeedsEditing(t *testing.T) {
	f := New(Config{Source: []any{"alpha"}})
	typeText(f, "a")
	if f.ResultsMode() {
		t.Fatalf("results mode without editing")
	}
}

func TestSearch_ForcePickKeepsResultsModeAfterRemove(t *testing.T) {
	f := New(Config{Source: []any{"x", "y"}, ForcePick: true})
	f.BeginEditing()
	x := f.AddTitle("x", "x")
	f.RemoveToken(x)
	if !f.ResultsMode() {
		t.Fatalf("force pick: results mode should stay on after remove")
	}
	typeText(f, "x,")
	if got := f.Text(); got != "x," {
		t.Fatalf("force pick text: got %q, want %q", got, "x,")
	}
	if len(f.Tokens()) != 0 {
		t.Fatalf("force pick should not tokenize typed text")
	}
}

func TestSearch_ProviderLatestQueryWins(t *testing.T) {
	batches := make(chan search.Batch, 2)
	f := New(Config{
		Provider: func(_ context.Context, q string) ([]any, error) { return []any{q}, nil },
		Deliver:  func(b search.Batch) { batches <- b },
	})
	f.BeginEditing()
	typeText(f, "al")

	accepted := 0
	for i := 0; i < 2; i++ {
		b := <-batches
		ok := f.Search().Accept(b)
		if ok {
			accepted++
		}
		if ok != (b.Query == "al") {
			t.Fatalf("accept %q: got %v", b.Query, ok)
		}
	}
	if accepted != 1 {
		t.Fatalf("accepted: got %d, want 1", accepted)
	}
	if got, want := f.Search().Results(), []any{"al"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("results: got %v, want %v", got, want)
	}
	if !f.ResultsMode() {
		t.Fatalf("results mode: got false")
	}
}

func TestPanicInHookIsContained(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	f := New(Config{
		Logger: &logger,
		Delegate: Hooks{DidAdd: func(t *token.Token) {
			if t.Title == "boom" {
				panic("hook failed")
			}
		}},
	})

	boom := f.AddTitle("boom", nil)
	if boom == nil {
		t.Fatalf("add: got nil, want the token despite the failing hook")
	}
	if got, want := f.Tokens(), []*token.Token{boom}; !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens: got %v, want %v", got, want)
	}
	if got := len(f.Layout().Placements); got != 1 {
		t.Fatalf("placements: got %d, want 1", got)
	}
	out := buf.String()
	if !strings.Contains(out, "hook failed") || !strings.Contains(out, "did_add") || !strings.Contains(out, f.ID()) {
		t.Fatalf("log: got %q", out)
	}

	if f.AddTitle("fine", nil) == nil {
		t.Fatalf("field unusable after contained panic")
	}
}

func TestPanicInVetoHookLeavesFieldUnchanged(t *testing.T) {
	f := New(Config{Delegate: Hooks{WillAdd: func(t *token.Token) bool {
		if t.Title == "boom" {
			panic("veto failed")
		}
		return true
	}}})
	f.AddTitle("a", nil)

	if got := f.AddTitle("boom", nil); got != nil {
		t.Fatalf("add: got %v, want nil", got)
	}
	if got, want := f.Titles(), []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles: got %v, want %v", got, want)
	}
	if got := len(f.Layout().Placements); got != 1 {
		t.Fatalf("placements: got %d, want 1", got)
	}
}

func TestHooksMayReadAndModifyField(t *testing.T) {
	var (
		f           *Field
		seen        []string
		resultsMode bool
		heights     []int
	)
	f = New(Config{
		Width:  20,
		Source: []any{"alice"},
		Delegate: Hooks{
			DidAdd:          func(*token.Token) { seen = f.Titles() },
			DidRemove:       func(*token.Token) { f.AddTitle("carol", nil) },
			SearchCompleted: func([]any) { resultsMode = f.ResultsMode() },
			DidResize:       func(_, _ int) { heights = append(heights, f.Height()) },
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.BeginEditing()
		first := f.AddTitle("aaaa", nil)
		f.AddTitle("bbbb", nil)
		typeText(f, "al")
		f.RemoveToken(first)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("hooks calling back into the field never returned")
	}

	if got, want := seen, []string{"bbbb", "carol"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles seen by DidAdd: got %v, want %v", got, want)
	}
	if !resultsMode {
		t.Fatalf("SearchCompleted should see results mode on")
	}
	if len(heights) == 0 || heights[0] != 2 {
		t.Fatalf("heights seen by DidResize: got %v, want first 2", heights)
	}
}
