package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len([]rune(text)))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// ClusterWidth returns the terminal-cell width of a single grapheme cluster.
// Zero-width clusters report 0.
func ClusterWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		if fallback := uniseg.StringWidth(cluster); fallback > w {
			w = fallback
		}
	}
	return w
}

// Width returns the terminal-cell width of text.
func Width(text string) int {
	w := 0
	for _, c := range Split(text) {
		w += ClusterWidth(c)
	}
	return w
}

// Truncate cuts text to at most width cells, ending with tail when anything
// was dropped. The tail is omitted if it does not fit on its own.
func Truncate(text string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if Width(text) <= width {
		return text
	}

	tailWidth := Width(tail)
	if tailWidth > width {
		tail, tailWidth = "", 0
	}

	var sb strings.Builder
	used := 0
	for _, c := range Split(text) {
		w := ClusterWidth(c)
		if used+w > width-tailWidth {
			break
		}
		sb.WriteString(c)
		used += w
	}
	sb.WriteString(tail)
	return sb.String()
}

// Wrap breaks text into lines of at most width cells. Lines break after the
// last whitespace cluster that fits; words wider than a line are split at
// cluster boundaries. Every line holds at least one cluster.
func Wrap(text string, width int) []string {
	clusters := Split(text)
	if len(clusters) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for start := 0; start < len(clusters); {
		used := 0
		end := start
		lastBreak := -1
		for end < len(clusters) {
			w := ClusterWidth(clusters[end])
			if end > start && used+w > width {
				break
			}
			used += w
			if IsSpace(clusters[end]) {
				lastBreak = end + 1
			}
			end++
		}
		if end < len(clusters) && lastBreak > start {
			end = lastBreak
		}
		lines = append(lines, strings.TrimRightFunc(strings.Join(clusters[start:end], ""), unicode.IsSpace))
		start = end
	}
	return lines
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
