// Package textshape prepares a screen row's runes for drawing: NFC
// normalization, grapheme-cluster segmentation so combining marks and
// cursor movement agree, and bidirectional reordering of right-to-left
// runs.
package textshape

import (
	"golang.org/x/text/unicode/norm"
)

// Cluster is one grapheme cluster: a base rune plus any combining marks
// that attach to it, and its resolved display width in cells.
type Cluster struct {
	Base      rune
	Combining []rune
	Width     int
}

// Normalize applies NFC (canonical composition) to a line of runes so
// combining-mark sequences produced by independently-typed or pasted
// text match precomposed form wherever Unicode defines one.
func Normalize(runes []rune) []rune {
	composed := norm.NFC.Bytes([]byte(string(runes)))
	return []rune(string(composed))
}
