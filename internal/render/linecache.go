package render

import "hash/fnv"

// LineCache memoizes the shaped-glyph run for a row, keyed on a hash of
// its cell content, so unchanged rows skip shaping entirely on the next
// Present. It complements glyph-level atlasing with a line-level cache.
type LineCache struct {
	entries map[int]lineEntry
}

type lineEntry struct {
	hash uint64
	run  []ShapedGlyph
}

// ShapedGlyph is one positioned glyph ready for the atlas lookup/draw
// step: the rune to rasterize, its cell column, and its display width.
type ShapedGlyph struct {
	R     rune
	Col   int
	Width int
}

func NewLineCache() *LineCache {
	return &LineCache{entries: make(map[int]lineEntry)}
}

// Get returns the cached shaped run for row if contentHash matches what
// was stored last time; otherwise it reports a miss so the caller
// reshapes and calls Put.
func (c *LineCache) Get(row int, contentHash uint64) ([]ShapedGlyph, bool) {
	e, ok := c.entries[row]
	if !ok || e.hash != contentHash {
		return nil, false
	}
	return e.run, true
}

func (c *LineCache) Put(row int, contentHash uint64, run []ShapedGlyph) {
	c.entries[row] = lineEntry{hash: contentHash, run: run}
}

// Invalidate drops a row's cached entry (e.g. on resize or scrollback push).
func (c *LineCache) Invalidate(row int) { delete(c.entries, row) }

// HashCells hashes a row's content for LineCache keys.
func HashCells(runes []rune, widths []int) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, len(runes)*5)
	for i, r := range runes {
		buf = append(buf, byte(r), byte(r>>8), byte(r>>16), byte(r>>24), byte(widths[i]))
	}
	h.Write(buf)
	return h.Sum64()
}
