// Package widget hosts a token field inside a Bubble Tea program.
//
// Model owns a *field.Field and routes key messages to it. Typed text lives
// in a bubbles textinput that only serves as the caret surface; the field
// decides what each edit means and the input is resynced from it after every
// key. Chips are drawn from the field's layout, and search results are shown
// below the field (or composited over a background with Overlay).
//
// When the field has a search provider, finished batches are handed to the
// program through a channel and accepted inside Update, so results never
// touch the field from another goroutine.
package widget
