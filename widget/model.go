package widget

import (
	"context"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/field"
	"github.com/iw2rmb/tokenfield/search"
)

// Model is a Bubble Tea component wrapping a token field.
type Model struct {
	cfg   Config
	field *field.Field

	input    textinput.Model
	viewport viewport.Model

	batches <-chan search.Batch

	focused   bool
	highlight int
	width     int

	log zerolog.Logger
}

type batchMsg struct {
	batch search.Batch
}

func New(cfg Config) Model {
	cfg.KeyMap = normalizeKeyMap(cfg.KeyMap)
	cfg.Style = normalizeStyle(cfg.Style)
	cfg.MaxResultRows = normalizeMaxResultRows(cfg.MaxResultRows)

	m := Model{cfg: cfg, log: zerolog.Nop()}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "widget").Logger()
	}

	fc := cfg.Field
	if fc.Logger == nil {
		fc.Logger = cfg.Logger
	}
	if fc.Provider != nil && fc.Deliver == nil {
		ch := make(chan search.Batch, batchBuffer)
		ctx := fc.Context
		if ctx == nil {
			ctx = context.Background()
		}
		fc.Deliver = func(b search.Batch) {
			select {
			case ch <- b:
			case <-ctx.Done():
			}
		}
		m.batches = ch
	}
	m.field = field.New(fc)
	m.width = m.field.Width()

	in := textinput.New()
	in.Prompt = ""
	in.TextStyle = cfg.Style.Text
	in.PlaceholderStyle = cfg.Style.Placeholder
	in.Cursor.Style = cfg.Style.Cursor
	in.Cursor.TextStyle = cfg.Style.Text
	_ = in.Cursor.SetMode(cursor.CursorStatic)
	m.input = in

	m.viewport = viewport.New(m.width, 0)
	m.syncInput(0)
	return m
}

// Field returns the underlying field. Hosts may call it directly; the widget
// resyncs its input on the next message.
func (m Model) Field() *field.Field { return m.field }

func (m Model) Focused() bool { return m.focused }

// Highlight returns the index of the highlighted result.
func (m Model) Highlight() int { return m.highlight }

func (m Model) Init() tea.Cmd {
	if m.batches == nil {
		return nil
	}
	return waitForBatch(m.batches)
}

func waitForBatch(ch <-chan search.Batch) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return nil
		}
		return batchMsg{batch: b}
	}
}

func (m Model) SetWidth(width int) Model {
	if width <= 0 {
		return m
	}
	m.width = width
	m.field.SetWidth(width)
	m.viewport.Width = width
	m.syncInput(m.input.Position())
	return m
}

// Focus begins editing. A read-only field stays blurred.
func (m Model) Focus() Model {
	if m.focused || !m.field.BeginEditing() {
		return m
	}
	m.focused = true
	_ = m.input.Focus()
	m.highlight = 0
	m.syncInput(utf8.RuneCountInString(m.field.Text()))
	return m
}

// Blur ends editing: trailing text is tokenized and the field may collapse.
func (m Model) Blur() Model {
	if !m.focused {
		return m
	}
	m.field.EndEditing()
	m.focused = false
	m.input.Blur()
	m.highlight = 0
	m.syncInput(0)
	return m
}

func (m Model) Update(msg tea.Msg) (out Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("op", "update").Interface("panic", r).Msg("recovered")
			out, cmd = m, nil
			if _, ok := msg.(batchMsg); ok {
				cmd = waitForBatch(m.batches)
			}
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetWidth(msg.Width), nil
	case batchMsg:
		m.field.Search().Accept(msg.batch)
		m.clampHighlight()
		return m, waitForBatch(m.batches)
	case tea.KeyMsg:
		return m.updateKey(msg), nil
	}
	return m, nil
}

// syncInput copies the field text into the input and places the cursor.
func (m *Model) syncInput(pos int) {
	text := m.field.Text()
	if m.input.Value() != text {
		m.input.SetValue(text)
	}
	m.input.SetCursor(pos)

	if m.field.PlaceholderVisible() {
		m.input.Placeholder = m.field.Placeholder()
	} else {
		m.input.Placeholder = ""
	}

	w := m.width - m.field.Layout().Caret.X - 1
	if w < 1 {
		w = 1
	}
	m.input.Width = w
}

func (m *Model) clampHighlight() {
	n := len(m.field.Search().Results())
	if m.highlight >= n {
		m.highlight = n - 1
	}
	if m.highlight < 0 {
		m.highlight = 0
	}
}
