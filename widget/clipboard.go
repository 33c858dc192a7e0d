package widget

// Clipboard provides paste support.
//
// Errors must not crash the UI; a failed read pastes nothing.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}
