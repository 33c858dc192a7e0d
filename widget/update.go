package widget

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tokenfield/field"
)

func (m Model) updateKey(msg tea.KeyMsg) Model {
	if !m.focused {
		return m
	}

	pos := m.input.Position()

	// Paste events insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		return m.replace(field.Range{Start: pos}, string(msg.Runes), pos+len(msg.Runes))
	}

	km := m.cfg.KeyMap
	state := m.field.State()
	textLen := utf8.RuneCountInString(state.Text)

	switch {
	case key.Matches(msg, km.Enter):
		return m.enter()

	case key.Matches(msg, km.Next):
		m.moveHighlight(1)
	case key.Matches(msg, km.Prev):
		m.moveHighlight(-1)

	case key.Matches(msg, km.Dismiss):
		if m.field.ResultsMode() {
			m.field.SetResultsMode(false)
			return m
		}
		return m.Blur()

	case key.Matches(msg, km.Backspace):
		switch {
		case state.Mode == field.Editing && pos > 0:
			return m.replace(field.Range{Start: pos - 1, Length: 1}, "", pos-1)
		case state.Mode != field.Editing:
			return m.replace(field.Range{}, "", 0)
		}

	case key.Matches(msg, km.Delete):
		if state.Mode == field.Editing && pos < textLen {
			return m.replace(field.Range{Start: pos, Length: 1}, "", pos)
		}

	case key.Matches(msg, km.Left):
		switch {
		case state.Mode == field.Hidden:
			m.selectPrevious()
		case state.Mode == field.Empty:
			if tokens := m.field.Tokens(); len(tokens) > 0 {
				m.field.SelectToken(tokens[len(tokens)-1])
			}
		default:
			m.input.SetCursor(pos - 1)
		}

	case key.Matches(msg, km.Right):
		if state.Mode == field.Hidden {
			m.field.DeselectSelected()
			m.syncInput(0)
			return m
		}
		m.input.SetCursor(pos + 1)

	case key.Matches(msg, km.Home):
		m.input.CursorStart()
	case key.Matches(msg, km.End):
		m.input.CursorEnd()

	case key.Matches(msg, km.Paste):
		return m.paste(pos)

	default:
		if (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && len(msg.Runes) > 0 && !msg.Alt {
			return m.replace(field.Range{Start: pos}, string(msg.Runes), pos+len(msg.Runes))
		}
	}
	return m
}

// replace forwards an edit to the field. When the field takes the edit over
// (tokenizing, selecting) the cursor goes to the end of whatever text is left.
func (m Model) replace(r field.Range, s string, cursorAfter int) Model {
	if !m.field.HandleReplacement(r, s) {
		cursorAfter = utf8.RuneCountInString(m.field.Text())
	}
	m.highlight = 0
	m.syncInput(cursorAfter)
	return m
}

func (m Model) enter() Model {
	if m.field.ResultsMode() && len(m.field.Search().Results()) > 0 {
		m.field.PickResult(m.highlight)
	} else {
		m.field.TokenizeText()
	}
	m.highlight = 0
	m.syncInput(utf8.RuneCountInString(m.field.Text()))
	return m
}

func (m Model) paste(pos int) Model {
	if m.cfg.Clipboard == nil {
		return m
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Warn().Err(err).Msg("clipboard read failed")
		return m
	}
	if s == "" {
		return m
	}
	return m.replace(field.Range{Start: pos}, s, pos+utf8.RuneCountInString(s))
}

func (m *Model) moveHighlight(delta int) {
	if !m.field.ResultsMode() {
		return
	}
	n := len(m.field.Search().Results())
	if n == 0 {
		m.highlight = 0
		return
	}
	m.highlight = (m.highlight + delta + n) % n
}

func (m *Model) selectPrevious() {
	tokens := m.field.Tokens()
	selected := m.field.Selected()
	for i, t := range tokens {
		if t == selected && i > 0 {
			m.field.SelectToken(tokens[i-1])
			return
		}
	}
}
