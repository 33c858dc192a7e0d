package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/field"
	"github.com/iw2rmb/tokenfield/internal/config"
	"github.com/iw2rmb/tokenfield/search"
	"github.com/iw2rmb/tokenfield/widget"
)

type settingsMsg struct {
	settings config.Settings
}

type model struct {
	tf  widget.Model
	dir *directory
}

// systemClipboard adapts the OS clipboard to widget.Clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteText(s string) error  { return clipboard.WriteAll(s) }

// directory holds the recipients offered to the field. With a latency set it
// serves them through a slow provider instead of local search.
type directory struct {
	mu         sync.RWMutex
	recipients []config.Recipient
	latency    time.Duration
}

func (d *directory) set(s config.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recipients = s.Recipients
	d.latency = s.Latency()
}

func (d *directory) search(ctx context.Context, query string) ([]any, error) {
	d.mu.RLock()
	recipients, latency := d.recipients, d.latency
	d.mu.RUnlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var out []any
	for _, r := range recipients {
		if strings.Contains(strings.ToLower(r.Name), query) || strings.Contains(strings.ToLower(r.Email), query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func recipientLabels() search.Labels {
	return search.Labels{
		Display: func(o any) string {
			if r, ok := o.(config.Recipient); ok {
				return r.Name
			}
			return fmt.Sprint(o)
		},
		Subtitle: func(o any) (string, bool) {
			r, ok := o.(config.Recipient)
			if !ok || r.Email == "" {
				return "", false
			}
			return r.Email, true
		},
	}
}

func newModel(ctx context.Context, s config.Settings, log *zerolog.Logger) model {
	dir := &directory{}
	dir.set(s)

	fc := s.Apply(field.Config{
		Labels:  recipientLabels(),
		Context: ctx,
	})
	if s.Latency() > 0 {
		fc.Provider = dir.search
	} else {
		fc.Source = s.Source()
	}

	tf := widget.New(widget.Config{
		Field:     fc,
		Clipboard: systemClipboard{},
		MaxHeight: 4,
		Logger:    log,
	})
	return model{tf: tf.Focus(), dir: dir}
}

func (m model) Init() tea.Cmd { return m.tf.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.tf.Focused() {
				m.tf = m.tf.Focus()
				return m, nil
			}
		}
	case settingsMsg:
		m.apply(msg.settings)
		return m, nil
	}

	var cmd tea.Cmd
	m.tf, cmd = m.tf.Update(msg)
	return m, cmd
}

// apply updates a running field from reloaded settings. Switching between
// local and provider search needs a restart.
func (m model) apply(s config.Settings) {
	m.dir.set(s)

	f := m.tf.Field()
	f.SetPrompt(s.Prompt)
	f.SetPlaceholder(s.Placeholder)
	f.SetMaxTokenWidth(s.MaxTokenWidth)
	f.SetForcePick(s.ForcePick)
	f.Search().SetShowAlreadyTokenized(s.ShowAlreadyTokenized)
	if s.Latency() == 0 {
		f.Search().SetSource(s.Source())
	}
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

func (m model) View() string {
	f := m.tf.Field()
	help := "enter add • ↑/↓ pick • esc dismiss • ctrl+c quit"
	if !m.tf.Focused() {
		help = "esc edit • ctrl+c quit"
	}
	status := fmt.Sprintf("%d token(s)", len(f.Tokens()))
	return m.tf.View() + "\n\n" + helpStyle.Render(status+" • "+help) + "\n"
}
