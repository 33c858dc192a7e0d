// Package layout computes chip placement for a token field.
//
// Compute is a pure function of its inputs: the same tokens, parameters and a
// deterministic measurer always produce the same Result. It runs in O(tokens)
// and is re-run wholesale on every relevant change.
package layout

import "github.com/iw2rmb/tokenfield/token"

// Metrics holds the fixed spacing constants of the algorithm.
type Metrics struct {
	// LeftPadding follows the leading accessory on the first line.
	LeftPadding int
	// LinePadding is the left margin of every line after the first.
	LinePadding int
	// RightPadding precedes the trailing accessory.
	RightPadding int
	// VerticalPadding is added to the font line height between lines.
	VerticalPadding int
	// Gap separates adjacent chips.
	Gap int
	// MinTrailing is the free space a line must keep after its last chip;
	// below it the caret moves to a new line.
	MinTrailing int

	Token token.Padding
}

// CellMetrics are the defaults for a terminal cell grid.
func CellMetrics() Metrics {
	return Metrics{
		LeftPadding:     1,
		LinePadding:     0,
		RightPadding:    0,
		VerticalPadding: 0,
		Gap:             1,
		MinTrailing:     8,
		Token:           token.Padding{Horizontal: 2, Vertical: 0, Accessory: 2},
	}
}

// PointMetrics are the defaults for point-based graphical hosts.
func PointMetrics() Metrics {
	return Metrics{
		LeftPadding:     12,
		LinePadding:     8,
		RightPadding:    8,
		VerticalPadding: 5,
		Gap:             4,
		MinTrailing:     50,
		Token:           token.Padding{Horizontal: 14, Vertical: 8, Accessory: 10},
	}
}

type Params struct {
	Width int
	// LeftAccessory and RightAccessory are the widths of leading (prompt) and
	// trailing decorations.
	LeftAccessory  int
	RightAccessory int
	MaxTokenWidth  int
	Font           token.Font
	Metrics        Metrics
}

type Point struct {
	X int
	Y int
}

// Placement is the position assigned to one token. Line is 0-based.
// MaxWidth is the width the token was allowed on its line.
type Placement struct {
	Token    *token.Token
	Line     int
	X        int
	Y        int
	Width    int
	Height   int
	MaxWidth int
}

type Result struct {
	Placements []Placement
	LineCount  int
	Height     int
	// LineHeight is the vertical advance between lines.
	LineHeight int
	// Caret is where free text continues after the last chip.
	Caret Point
}

// Margins reports the derived margins for p.
func Margins(p Params) (top, left, right, lineHeight int) {
	top = p.Font.LineHeight * 4 / 7
	left = p.LeftAccessory + p.Metrics.LeftPadding
	right = p.RightAccessory + p.Metrics.RightPadding
	lineHeight = p.Font.LineHeight + top + p.Metrics.VerticalPadding
	return top, left, right, lineHeight
}

// Compute lays tokens out in order with a greedy line fill. Tokens are
// measured at the params' font and clamped width; they are not modified.
func Compute(tokens []*token.Token, p Params, m token.Measurer) Result {
	top, left, right, lineHeight := Margins(p)
	if lineHeight < 1 {
		lineHeight = 1
	}

	res := Result{
		LineCount:  1,
		LineHeight: lineHeight,
		Placements: make([]Placement, 0, len(tokens)),
	}
	caret := Point{X: left, Y: top}
	lineStart := left

	newLine := func() {
		res.LineCount++
		lineStart = p.Metrics.LinePadding
		caret.X = lineStart
		caret.Y += lineHeight
	}

	for _, tok := range tokens {
		if tok == nil {
			continue
		}

		maxWidth := p.Width - right - lineStart
		if p.MaxTokenWidth > 0 && maxWidth > p.MaxTokenWidth {
			maxWidth = p.MaxTokenWidth
		}
		if maxWidth < 1 {
			maxWidth = 1
		}
		size := tok.SizeAt(m, p.Metrics.Token, p.Font, maxWidth)

		if caret.X > lineStart && caret.X+size.Width+right > p.Width {
			newLine()
		}

		res.Placements = append(res.Placements, Placement{
			Token:    tok,
			Line:     res.LineCount - 1,
			X:        caret.X,
			Y:        caret.Y,
			Width:    size.Width,
			Height:   size.Height,
			MaxWidth: maxWidth,
		})
		caret.X += size.Width + p.Metrics.Gap

		if p.Width-caret.X-right < p.Metrics.MinTrailing {
			newLine()
		}
	}

	res.Caret = caret
	res.Height = caret.Y + lineHeight
	return res
}

// Line returns the placements on the given 0-based line.
func (r Result) Line(line int) []Placement {
	var out []Placement
	for _, pl := range r.Placements {
		if pl.Line == line {
			out = append(out, pl)
		}
	}
	return out
}
