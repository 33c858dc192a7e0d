package token

import (
	graphemeutil "github.com/iw2rmb/tokenfield/internal/grapheme"
)

// Font describes the face text is measured in. Terminal hosts only care
// about LineHeight; graphical hosts may use Name and Size in their measurer.
type Font struct {
	Name       string
	Size       float64
	LineHeight int
}

// CellFont is the font of a terminal cell grid.
func CellFont() Font { return Font{Name: "cell", Size: 1, LineHeight: 1} }

// Measurer returns the bounding size of text rendered in font and wrapped at
// maxWidth; maxWidth <= 0 means unbounded. Implementations must be
// deterministic.
type Measurer interface {
	Measure(text string, font Font, maxWidth int) (width, height int)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, font Font, maxWidth int) (width, height int)

func (f MeasurerFunc) Measure(text string, font Font, maxWidth int) (int, int) {
	return f(text, font, maxWidth)
}

// CellMeasurer measures text in terminal cells.
//
// Text wraps at maxWidth; MaxLines caps the line count (extra text is
// treated as truncated). MaxLines <= 0 means unlimited.
type CellMeasurer struct {
	MaxLines int
}

func (m CellMeasurer) Measure(text string, font Font, maxWidth int) (int, int) {
	lineHeight := font.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1
	}

	lines := graphemeutil.Wrap(text, maxWidth)
	if len(lines) == 0 {
		return 0, lineHeight
	}
	cut := false
	if m.MaxLines > 0 && len(lines) > m.MaxLines {
		lines = lines[:m.MaxLines]
		cut = true
	}

	width := 0
	for _, line := range lines {
		if w := graphemeutil.Width(line); w > width {
			width = w
		}
	}
	// A cut line is rendered truncated to the full width.
	if cut && maxWidth > 0 {
		width = maxWidth
	}
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	return width, len(lines) * lineHeight
}
