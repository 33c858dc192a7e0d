package field

import (
	"strings"

	"github.com/iw2rmb/tokenfield/internal/sentinel"
)

// Sentinel strings placed in the host buffer for the non-Editing modes.
const (
	SentinelEmpty  = sentinel.Empty
	SentinelHidden = sentinel.Hidden
)

// Mode is the state of the text buffer.
type Mode uint8

const (
	// Empty: no user text and no selected token.
	Empty Mode = iota
	// Hidden: a token is selected and the next edit is absorbed by it.
	Hidden
	// Editing: the buffer holds user text.
	Editing
)

func (m Mode) String() string {
	switch m {
	case Empty:
		return "empty"
	case Hidden:
		return "hidden"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// TextState is the buffer state. Text is only meaningful in Editing mode and
// never contains sentinels.
type TextState struct {
	Mode Mode
	Text string
}

// Encode returns the string a host text surface should hold for s.
func Encode(s TextState) string {
	switch s.Mode {
	case Hidden:
		return SentinelHidden
	case Editing:
		if s.Text != "" {
			return s.Text
		}
	}
	return SentinelEmpty
}

// Decode reads a host string back into a TextState.
func Decode(host string) TextState {
	if host == SentinelHidden {
		return TextState{Mode: Hidden}
	}
	text := Sanitize(host)
	if text == "" {
		return TextState{Mode: Empty}
	}
	return TextState{Mode: Editing, Text: text}
}

// Sanitize removes sentinel characters from text.
func Sanitize(text string) string { return sentinel.Strip(text) }

// Range addresses a run of runes in the visible buffer text.
type Range struct {
	Start  int
	Length int
}

func editedText(current string, r Range, replacement string) string {
	runes := []rune(current)
	start := clamp(r.Start, 0, len(runes))
	end := clamp(r.Start+r.Length, start, len(runes))

	var sb strings.Builder
	sb.WriteString(string(runes[:start]))
	sb.WriteString(Sanitize(replacement))
	sb.WriteString(string(runes[end:]))
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
