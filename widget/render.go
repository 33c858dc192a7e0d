package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/tokenfield/internal/grapheme"
	"github.com/iw2rmb/tokenfield/layout"
	"github.com/iw2rmb/tokenfield/token"
)

const (
	ellipsis   = "…"
	disclosure = " ›"
)

// View renders the field and, unless Popover is set, the results below it.
func (m Model) View() string {
	v := m.fieldView()
	if m.cfg.Popover {
		return v
	}
	if r := m.resultsView(); r != "" {
		v += "\n" + r
	}
	return v
}

// Overlay composites the results list over background, just below the
// field. The field is assumed to be drawn at the top-left of background.
func (m Model) Overlay(background string) string {
	r := m.resultsView()
	if r == "" {
		return background
	}

	x := m.field.Layout().Caret.X
	if maxX := m.width - lipgloss.Width(r); x > maxX {
		x = maxX
	}
	if x < 0 {
		x = 0
	}
	y := m.fieldRows()
	if maxY := lipgloss.Height(background) - lipgloss.Height(r); y > maxY {
		y = maxY
	}
	if y < 0 {
		y = 0
	}
	return overlay.Composite(r, background, overlay.Left, overlay.Top, x, y)
}

func (m Model) fieldRows() int {
	n := m.field.NumberOfLines()
	if m.field.Collapsed() {
		n = 1
	}
	if m.cfg.MaxHeight > 0 && n > m.cfg.MaxHeight {
		n = m.cfg.MaxHeight
	}
	return n
}

func (m Model) fieldView() string {
	st := m.cfg.Style
	prompt := m.field.Prompt()
	promptWidth := grapheme.Width(prompt)

	var head strings.Builder
	if prompt != "" {
		head.WriteString(st.Prompt.Render(prompt))
	}

	if m.field.Collapsed() {
		avail := m.width - promptWidth - 1
		summary := grapheme.Truncate(m.field.Summary(), avail, ellipsis)
		if prompt != "" {
			head.WriteString(" ")
		}
		head.WriteString(st.Summary.Render(summary))
		return head.String()
	}

	res := m.field.Layout()
	lines := make([]strings.Builder, res.LineCount)
	cols := make([]int, res.LineCount)
	lines[0].WriteString(head.String())
	cols[0] = promptWidth

	for _, pl := range res.Placements {
		if pl.Line < 0 || pl.Line >= len(lines) {
			continue
		}
		pad(&lines[pl.Line], pl.X-cols[pl.Line])
		lines[pl.Line].WriteString(m.renderChip(pl))
		cols[pl.Line] = pl.X + pl.Width
	}

	last := res.LineCount - 1
	pad(&lines[last], res.Caret.X-cols[last])
	lines[last].WriteString(m.input.View())

	out := make([]string, len(lines))
	for i := range lines {
		out[i] = lines[i].String()
	}

	if m.cfg.MaxHeight > 0 && len(out) > m.cfg.MaxHeight {
		vp := m.viewport
		vp.Width = m.width
		vp.Height = m.cfg.MaxHeight
		vp.SetContent(strings.Join(out, "\n"))
		vp.GotoBottom()
		return vp.View()
	}
	return strings.Join(out, "\n")
}

func (m Model) renderChip(pl layout.Placement) string {
	t := pl.Token
	st := m.cfg.Style

	suffix := ""
	if t.Accessory == token.AccessoryDisclosure {
		suffix = disclosure
	}
	inner := pl.Width - 2 - grapheme.Width(suffix)
	content := " " + grapheme.Truncate(t.Title, inner, ellipsis) + suffix
	if w := grapheme.Width(content); w < pl.Width {
		content += strings.Repeat(" ", pl.Width-w)
	}

	if t.Selected() {
		return st.ChipSelected.Render(content)
	}
	return st.Chip.Background(t.Tint).Render(content)
}

func (m Model) resultsView() string {
	if !m.field.ResultsMode() {
		return ""
	}
	st := m.cfg.Style
	results := m.field.Search().Results()
	if len(results) == 0 {
		return st.NoResults.Render(grapheme.Truncate("No matches", m.width, ellipsis))
	}

	labels := m.field.Search().Labels()
	rows := m.cfg.MaxResultRows
	start := 0
	if m.highlight >= rows {
		start = m.highlight - rows + 1
	}
	end := min(len(results), start+rows)

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		obj := results[i]
		style := st.Result
		if i == m.highlight {
			style = st.ResultSelected
		}

		title := grapheme.Truncate(labels.DisplayString(obj), m.width, ellipsis)
		row := style.Render(title)
		if sub, ok := labels.SubtitleString(obj); ok && sub != "" {
			if avail := m.width - grapheme.Width(title) - 2; avail > 0 {
				row += "  " + st.Subtitle.Render(grapheme.Truncate(sub, avail, ellipsis))
			}
		}
		out = append(out, row)
	}

	// Rows share one width so the list composites as a solid block.
	width := 0
	for _, row := range out {
		width = max(width, lipgloss.Width(row))
	}
	for i, row := range out {
		out[i] = row + strings.Repeat(" ", width-lipgloss.Width(row))
	}
	return strings.Join(out, "\n")
}

func pad(sb *strings.Builder, n int) {
	if n > 0 {
		sb.WriteString(strings.Repeat(" ", n))
	}
}
