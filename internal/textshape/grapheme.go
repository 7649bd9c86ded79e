package textshape

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Segment splits normalized runes into grapheme clusters using Unicode's
// extended grapheme cluster rules, so a base rune plus its combining
// marks (or a multi-rune emoji ZWJ sequence) advances the cursor exactly
// once.
func Segment(runes []rune) []Cluster {
	if len(runes) == 0 {
		return nil
	}
	s := string(runes)
	var clusters []Cluster
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		cr := []rune(cluster)
		if len(cr) == 0 {
			continue
		}
		if width == 0 {
			width = runewidth.RuneWidth(cr[0])
		}
		clusters = append(clusters, Cluster{Base: cr[0], Combining: cr[1:], Width: width})
	}
	return clusters
}
