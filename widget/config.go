package widget

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/field"
)

const (
	defaultMaxResultRows = 6
	batchBuffer          = 16
)

// Config configures the widget Model.
type Config struct {
	Field field.Config

	KeyMap    KeyMap
	Style     Style
	Clipboard Clipboard

	// MaxHeight caps the rows the field occupies; more lines scroll. Zero
	// means no cap.
	MaxHeight int
	// MaxResultRows caps the visible rows of the results list.
	MaxResultRows int
	// Popover keeps results out of View; hosts draw them with Overlay.
	Popover bool

	// Logger is also used by the field when Field.Logger is nil.
	Logger *zerolog.Logger
}

func normalizeKeyMap(km KeyMap) KeyMap {
	if reflect.DeepEqual(km, KeyMap{}) {
		return DefaultKeyMap()
	}
	return km
}

func normalizeStyle(st Style) Style {
	if reflect.DeepEqual(st, Style{}) {
		return DefaultStyle()
	}
	return st
}

func normalizeMaxResultRows(rows int) int {
	if rows <= 0 {
		return defaultMaxResultRows
	}
	return rows
}
