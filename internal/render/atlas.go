package render

import (
	"image"
	"image/color"

	lru "github.com/hashicorp/golang-lru/v2"
)

// GlyphKey identifies one cached rasterized glyph: the rune plus the
// pixel cell size it was rasterized for (after a resize to a new cell size
// lookups miss under the new key rather than rescaling cached bitmaps).
type GlyphKey struct {
	R          rune
	CellW, CellH int
	Bold, Italic bool
}

// AtlasSlot is one glyph's placed position inside the atlas texture.
type AtlasSlot struct {
	X, Y, W, H int
}

// TextureAtlas packs rasterized glyph bitmaps into one square texture
// using first-fit placement, and evicts the least-recently-used glyph
// when a new one won't fit.
type TextureAtlas struct {
	size    int
	cells   []bool // coarse row occupancy for first-fit scanning
	rowH    int
	cursorX, cursorY int

	pixels *image.Alpha
	cache  *lru.Cache[GlyphKey, AtlasSlot]
}

// NewTextureAtlas creates a size x size atlas holding at most maxGlyphs
// entries before LRU eviction kicks in.
func NewTextureAtlas(size, maxGlyphs int) *TextureAtlas {
	cache, _ := lru.New[GlyphKey, AtlasSlot](maxGlyphs)
	return &TextureAtlas{
		size:   size,
		pixels: image.NewAlpha(image.Rect(0, 0, size, size)),
		cache:  cache,
	}
}

// Lookup returns the slot for key if already resident.
func (a *TextureAtlas) Lookup(key GlyphKey) (AtlasSlot, bool) {
	return a.cache.Get(key)
}

// Insert places a w x h bitmap into the atlas and returns its slot. When
// the atlas has no room even after evicting the LRU entry, it returns
// ErrAtlasFull — callers fall back to drawing the glyph unatlased for
// that frame.
func (a *TextureAtlas) Insert(key GlyphKey, bitmap []byte, w, h int) (AtlasSlot, error) {
	if slot, ok := a.cache.Get(key); ok {
		return slot, nil
	}
	slot, ok := a.firstFit(w, h)
	if !ok {
		if a.cache.Len() == 0 {
			return AtlasSlot{}, &Error{Kind: ErrAtlasFull, Op: "insert"}
		}
		slot, ok = a.evictOne(w, h)
		if !ok {
			return AtlasSlot{}, &Error{Kind: ErrAtlasFull, Op: "insert-after-evict"}
		}
	}
	a.blit(slot, bitmap, w, h)
	a.cache.Add(key, slot)
	return slot, nil
}

// firstFit advances a simple shelf-packing cursor: glyphs are placed left
// to right on the current shelf, and a new shelf starts when the row is
// full.
func (a *TextureAtlas) firstFit(w, h int) (AtlasSlot, bool) {
	if a.cursorX+w > a.size {
		a.cursorX = 0
		a.cursorY += a.rowH
		a.rowH = 0
	}
	if a.cursorY+h > a.size {
		return AtlasSlot{}, false
	}
	slot := AtlasSlot{X: a.cursorX, Y: a.cursorY, W: w, H: h}
	a.cursorX += w
	if h > a.rowH {
		a.rowH = h
	}
	return slot, true
}

func (a *TextureAtlas) evictOne(w, h int) (AtlasSlot, bool) {
	// golang-lru evicts on Add once full; here we're full on space, not
	// count, so force an eviction by removing the single oldest entry and
	// handing its region to the new w x h glyph when it is large enough.
	// Every other resident glyph keeps its region untouched.
	_, old, ok := a.cache.RemoveOldest()
	if !ok || old.W < w || old.H < h {
		return AtlasSlot{}, false
	}
	return AtlasSlot{X: old.X, Y: old.Y, W: w, H: h}, true
}

func (a *TextureAtlas) blit(slot AtlasSlot, bitmap []byte, w, h int) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			a.pixels.SetAlpha(slot.X+col, slot.Y+row, color.Alpha{A: bitmap[row*w+col]})
		}
	}
}

// Pixels exposes the backing alpha image for upload to a real GPU
// texture, or direct compositing in the CPU backend.
func (a *TextureAtlas) Pixels() *image.Alpha { return a.pixels }
