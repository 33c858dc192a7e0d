package field

import (
	"strings"

	"github.com/iw2rmb/tokenfield/token"
)

// AddToken inserts t after the will-add chain accepts it. The field's tint,
// font and max width are applied before DidAdd fires, so a DidAdd hook may
// override them. Adding a token that is already present re-runs the chain
// but fires no DidAdd.
func (f *Field) AddToken(t *token.Token) (ok bool) {
	defer f.guard("add_token", func() { ok = false })

	f.mutate(func() {
		ok = f.addLocked(t)
	})
	return ok
}

// AddTitle creates and adds a token. It returns nil for a blank title or a
// vetoed add.
func (f *Field) AddTitle(title string, object any) (t *token.Token) {
	defer f.guard("add_title", func() { t = nil })

	f.mutate(func() {
		t = f.addTitleLocked(title, object)
	})
	return t
}

func (f *Field) addTitleLocked(title string, object any) *token.Token {
	title = strings.TrimSpace(Sanitize(title))
	if title == "" {
		return nil
	}
	t := token.New(title, object)
	if !f.addLocked(t) {
		return nil
	}
	return t
}

func (f *Field) addLocked(t *token.Token) bool {
	if t == nil || strings.TrimSpace(Sanitize(t.Title)) == "" {
		return false
	}
	if !f.bus.willAdd(t) {
		f.log.Debug().Str("title", t.Title).Msg("add vetoed")
		return false
	}

	t.Title = Sanitize(t.Title)
	t.Tint = f.tint
	t.MaxWidth = f.maxTokenWidth
	t.Font = f.font
	if f.tokens.Add(t) {
		f.emit("did_add", func() { f.bus.didAdd(t) })
	}

	f.resultsMode = false
	f.deselectLocked()
	if f.collapsed {
		f.summary = f.summaryLocked()
	}
	f.relayoutLocked()
	return true
}

// RemoveToken removes t after the will-remove chain accepts it. A selected
// token is deselected first, even when the removal is then vetoed.
func (f *Field) RemoveToken(t *token.Token) (ok bool) {
	defer f.guard("remove_token", func() { ok = false })

	f.mutate(func() {
		ok = f.removeLocked(t)
	})
	return ok
}

// RemoveAll removes every token, honouring vetoes.
func (f *Field) RemoveAll() {
	defer f.guard("remove_all", nil)

	f.mutate(func() {
		for _, t := range f.tokens.Tokens() {
			f.removeLocked(t)
		}
	})
}

func (f *Field) removeLocked(t *token.Token) bool {
	if t == nil || !f.tokens.Contains(t) {
		return false
	}
	if t == f.selected {
		f.deselectLocked()
	}
	if !f.bus.willRemove(t) {
		f.log.Debug().Str("title", t.Title).Msg("remove vetoed")
		return false
	}

	f.tokens.Remove(t)
	f.emit("did_remove", func() { f.bus.didRemove(t) })

	f.resultsMode = f.forcePick
	if f.collapsed {
		f.summary = f.summaryLocked()
	}
	f.relayoutLocked()
	return true
}

// SelectToken selects t, which must be in the field. The buffer switches to
// Hidden so the next edit is absorbed by the token.
func (f *Field) SelectToken(t *token.Token) (ok bool) {
	defer f.guard("select_token", func() { ok = false })

	f.mutate(func() {
		if t == nil || !f.tokens.Contains(t) {
			return
		}
		f.selectLocked(t)
		ok = true
	})
	return ok
}

func (f *Field) selectLocked(t *token.Token) {
	f.deselectLocked()
	t.SetSelected(true)
	f.selected = t
	f.setStateLocked(TextState{Mode: Hidden})
}

// DeselectSelected clears the selection and empties the buffer. The buffer is
// emptied even when nothing was selected.
func (f *Field) DeselectSelected() {
	defer f.guard("deselect_selected", nil)

	f.mutate(f.deselectLocked)
}

func (f *Field) deselectLocked() {
	if f.selected != nil {
		f.selected.SetSelected(false)
		f.selected = nil
	}
	f.setStateLocked(TextState{Mode: Empty})
}

// PickResult adds a token for the i-th search result and clears the results.
func (f *Field) PickResult(i int) (t *token.Token) {
	defer f.guard("pick_result", func() { t = nil })

	results := f.search.Results()
	if i < 0 || i >= len(results) {
		return nil
	}
	object := results[i]
	title := f.search.Labels().DisplayString(object)

	f.mutate(func() {
		t = f.addTitleLocked(title, object)
		f.search.Clear()
		f.resultsMode = false
	})
	return t
}
