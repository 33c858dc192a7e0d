package widget

import "github.com/charmbracelet/lipgloss"

// Style controls the widget's rendering. Chip backgrounds come from each
// token's tint.
type Style struct {
	Prompt       lipgloss.Style
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	Summary      lipgloss.Style
	Placeholder  lipgloss.Style

	Text   lipgloss.Style
	Cursor lipgloss.Style

	Result         lipgloss.Style
	ResultSelected lipgloss.Style
	Subtitle       lipgloss.Style
	NoResults      lipgloss.Style
}

func DefaultStyle() Style { return NewStyle(lipgloss.DefaultRenderer()) }

// NewStyle builds the default style on r.
func NewStyle(r *lipgloss.Renderer) Style {
	muted := r.NewStyle().Foreground(lipgloss.Color("244"))
	return Style{
		Prompt:       muted,
		Chip:         r.NewStyle().Foreground(lipgloss.Color("255")),
		ChipSelected: r.NewStyle().Reverse(true),
		Summary:      r.NewStyle(),
		Placeholder:  muted,

		Text:   r.NewStyle(),
		Cursor: r.NewStyle().Reverse(true),

		Result:         r.NewStyle(),
		ResultSelected: r.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		Subtitle:       muted,
		NoResults:      muted.Italic(true),
	}
}
