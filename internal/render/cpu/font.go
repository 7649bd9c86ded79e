// Package cpu implements the CPU fallback renderer: the Renderer contract
// from internal/render backed by golang.org/x/image/font rasterization
// and a 5x5 bitmap fallback font for glyphs the loaded font lacks.
package cpu

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TTFSource wraps an opentype.Face as a render.FontSource for glyph
// rasterization and metrics.
type TTFSource struct {
	face         font.Face
	cellW, cellH int
}

// NewTTFSource parses ttfData and creates a face at sizePt for the given
// DPI, pre-measuring the fixed cell advance and line height.
func NewTTFSource(ttfData []byte, sizePt, dpi float64) (*TTFSource, error) {
	parsed, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	metrics := face.Metrics()
	advance := font.MeasureString(face, "M").Ceil()
	return &TTFSource{face: face, cellW: advance, cellH: metrics.Height.Ceil()}, nil
}

func (t *TTFSource) Close() error { return t.face.Close() }

func (t *TTFSource) Metrics() (advance, height int) { return t.cellW, t.cellH }

// Glyph rasterizes r into an alpha coverage bitmap sized cellW x cellH.
// Fonts missing a glyph report ok=false so the caller falls back to
// BitmapFallback.
func (t *TTFSource) Glyph(r rune, cellW, cellH int) ([]byte, int, int, bool) {
	dr, mask, maskp, _, ok := t.face.Glyph(fixed.Point26_6{}, r)
	if !ok || mask == nil {
		return nil, 0, 0, false
	}

	bitmap := make([]byte, cellW*cellH)
	bounds := dr.Bounds()
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			sx := bounds.Min.X + x + maskp.X
			sy := bounds.Min.Y + y + maskp.Y
			if !(image.Point{X: sx, Y: sy}.In(mask.Bounds())) {
				continue
			}
			_, _, _, a := mask.At(sx, sy).RGBA()
			bitmap[y*cellW+x] = byte(a >> 8)
		}
	}
	return bitmap, cellW, cellH, true
}
