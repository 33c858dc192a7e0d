package field

import (
	"slices"
	"strings"

	"github.com/iw2rmb/tokenfield/token"
)

// BeginEditing focuses the field. Collapsed chips are re-attached by running
// each through AddToken again. It reports false for a read-only field.
func (f *Field) BeginEditing() (ok bool) {
	defer f.guard("begin_editing", func() { ok = false })

	f.mutate(func() {
		if f.readOnly {
			return
		}
		ok = true
		f.editing = true
		if f.collapsed {
			f.collapsed = false
			f.summary = ""
			for _, t := range f.tokens.Tokens() {
				f.addLocked(t)
			}
		}
		f.search.Clear()
		f.resultsMode = false
		f.emit("did_begin_editing", f.bus.didBeginEditing)
		f.relayoutLocked()
	})
	return ok
}

// EndEditing tokenizes trailing text and, unless auto-collapse is disabled,
// folds the chips into a one-line summary.
func (f *Field) EndEditing() {
	defer f.guard("end_editing", nil)

	f.mutate(func() {
		if f.selected != nil {
			f.deselectLocked()
		}
		f.tokenizeLocked()

		f.editing = false
		if f.autoCollapse && f.tokens.Len() > 0 {
			f.collapsed = true
			f.summary = f.summaryLocked()
		}
		f.search.Clear()
		f.resultsMode = false
		f.searchQueue = false

		f.emit("did_end_editing", f.bus.didEndEditing)
		f.relayoutLocked()
	})
}

// HandleReplacement applies a host edit of r (in runes over the visible text)
// with replacement. It reports whether the host should apply the edit to its
// own surface; false means the field already reconciled the buffer and the
// host should resync from HostText.
//
// Rules, first match wins:
//  1. Backspace on an empty buffer selects the last token.
//  2. Any edit while a token is selected removes it; typed text replaces it.
//  3. A delimiter (without force-pick) tokenizes the buffer.
//  4. Anything else edits the text and searches for it.
func (f *Field) HandleReplacement(r Range, replacement string) (ok bool) {
	defer f.guard("handle_replacement", func() { ok = false })

	f.mutate(func() {
		if f.readOnly {
			return
		}

		switch {
		case f.state.Mode == Empty && replacement == "" && f.tokens.Len() > 0:
			f.selectLocked(f.tokens.Last())

		case f.state.Mode == Hidden:
			f.removeLocked(f.selected)
			f.deselectLocked()
			if replacement == "" {
				return
			}
			ok = true
			f.setTextLocked(Sanitize(replacement))
			f.queueSearch(f.state.Text)

		case !f.forcePick && f.hasDelimiter(replacement):
			f.tokenizeLocked()

		default:
			ok = true
			f.setTextLocked(editedText(f.state.Text, r, replacement))
			f.queueSearch(f.state.Text)
		}
	})
	return ok
}

// TokenizeText turns the typed text into tokens, one per delimited segment.
// It does nothing with force-pick on.
func (f *Field) TokenizeText() (added []*token.Token) {
	defer f.guard("tokenize_text", func() { added = nil })

	f.mutate(func() {
		added = f.tokenizeLocked()
	})
	return added
}

func (f *Field) tokenizeLocked() []*token.Token {
	if f.state.Mode != Editing || f.forcePick {
		return nil
	}

	segments := strings.FieldsFunc(f.state.Text, f.isDelimiter)
	var (
		added    []*token.Token
		nonEmpty int
	)
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		nonEmpty++
		if t := f.addTitleLocked(seg, nil); t != nil {
			added = append(added, t)
		}
	}

	if nonEmpty == 0 {
		f.setStateLocked(TextState{Mode: Empty})
	}
	f.queueSearch(f.state.Text)
	return added
}

func (f *Field) isDelimiter(r rune) bool {
	return slices.Contains(f.delimiters, r)
}

func (f *Field) hasDelimiter(s string) bool {
	return strings.ContainsFunc(s, f.isDelimiter)
}
