// Package token implements the chip model for tokenfield: tokens, the ordered
// per-field collection that owns them, and text measurement.
//
// Token identity is the *Token pointer. Two tokens with equal titles are
// distinct entities.
package token
