// Package sentinel holds the reserved characters a token field uses to encode
// its Empty and Hidden states inside a plain host text buffer.
package sentinel

import "strings"

const (
	// Empty is a zero-width space: no token selected, no user text.
	Empty = "\u200b"
	// Hidden is a zero-width joiner: a token is selected and absorbs the next edit.
	Hidden = "\u200d"
)

var stripper = strings.NewReplacer(Empty, "", Hidden, "")

// Strip removes every sentinel from s.
func Strip(s string) string {
	if !strings.Contains(s, Empty) && !strings.Contains(s, Hidden) {
		return s
	}
	return stripper.Replace(s)
}
