package token

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const DefaultMaxWidth = 200

// Tint presets.
var (
	BlueTint  = lipgloss.Color("#375FF6")
	RedTint   = lipgloss.Color("#FF2626")
	GreenTint = lipgloss.Color("#55BD3C")
)

// Accessory is a trailing decoration drawn inside a chip.
type Accessory uint8

const (
	AccessoryNone Accessory = iota
	AccessoryDisclosure
)

func (a Accessory) String() string {
	switch a {
	case AccessoryNone:
		return "none"
	case AccessoryDisclosure:
		return "disclosure"
	default:
		return fmt.Sprintf("Accessory(%d)", uint8(a))
	}
}

// Token is one chip. Object carries arbitrary caller data; when it is nil the
// title is both display text and identity.
type Token struct {
	Title     string
	Object    any
	MaxWidth  int
	Accessory Accessory
	Tint      lipgloss.Color
	Font      Font

	selected bool
}

func New(title string, object any) *Token {
	return &Token{
		Title:    title,
		Object:   object,
		MaxWidth: DefaultMaxWidth,
		Tint:     BlueTint,
		Font:     CellFont(),
	}
}

func (t *Token) Selected() bool { return t != nil && t.selected }

func (t *Token) SetSelected(v bool) {
	if t != nil {
		t.selected = v
	}
}

// Value returns Object when set, otherwise Title.
func (t *Token) Value() any {
	if t == nil {
		return nil
	}
	if t.Object != nil {
		return t.Object
	}
	return t.Title
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("token(%q)", t.Title)
}

// Size is a measured extent in the measurer's units.
type Size struct {
	Width  int
	Height int
}

// Padding is the space a chip adds around its title.
type Padding struct {
	Horizontal int
	Vertical   int
	// Accessory is the width reserved for AccessoryDisclosure.
	Accessory int
}

// Size measures the chip: the title is measured at the token's MaxWidth minus
// padding and accessory, then padding is added back.
func (t *Token) Size(m Measurer, p Padding) Size {
	if t == nil {
		return Size{}
	}
	return t.SizeAt(m, p, t.Font, t.MaxWidth)
}

// SizeAt is Size with the font and max width given by the caller instead of
// read from the token.
func (t *Token) SizeAt(m Measurer, p Padding, font Font, maxWidth int) Size {
	if t == nil || m == nil {
		return Size{}
	}

	accessory := 0
	if t.Accessory == AccessoryDisclosure {
		accessory = p.Accessory
	}

	avail := maxWidth - p.Horizontal - accessory
	if avail < 1 {
		avail = 1
	}
	w, h := m.Measure(t.Title, font, avail)

	size := Size{
		Width:  w + p.Horizontal + accessory,
		Height: h + p.Vertical,
	}
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	return size
}
