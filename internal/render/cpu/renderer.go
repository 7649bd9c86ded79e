package cpu

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/sare/sare/internal/render"
	"github.com/sare/sare/internal/screen"
	"github.com/sare/sare/internal/textshape"
)

// Renderer draws a Screen's cells into an in-memory RGBA framebuffer by
// alpha-blending cached glyph bitmaps; the GPU backend in internal/render/gpu
// draws through it as well.
type Renderer struct {
	font   render.FontSource
	atlas  *render.TextureAtlas
	pool   *render.MemoryPool
	lines  *render.LineCache
	cfg    render.Config

	cellW, cellH int
	cols, rows   int
	img          *image.RGBA
}

// New creates a CPU renderer drawing at cols x rows cells sized cellW x
// cellH pixels each.
func New(font render.FontSource, cfg render.Config, cols, rows int) *Renderer {
	cellW, cellH := font.Metrics()
	r := &Renderer{
		font:  font,
		atlas: render.NewTextureAtlas(cfg.MaxAtlasSize, 4096),
		pool:  render.NewMemoryPool(cfg.MaxMemoryUsage),
		lines: render.NewLineCache(),
		cfg:   cfg,
		cellW: cellW, cellH: cellH,
		cols: cols, rows: rows,
	}
	r.img = image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	return r
}

// Image exposes the software framebuffer for presentation (blit to a
// window surface, encode to PNG for a headless test, etc.).
func (r *Renderer) Image() *image.RGBA { return r.img }

func (r *Renderer) Resize(cols, rows, cellW, cellH int) error {
	r.cols, r.rows, r.cellW, r.cellH = cols, rows, cellW, cellH
	r.img = image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	r.lines = render.NewLineCache()
	return nil
}

func (r *Renderer) Close() error { return nil }

// Present draws the rows covered by the screen's dirty snapshot (or every
// row when forceFull is set) and clears the screen's dirty tracker.
func (r *Renderer) Present(f render.Frame, forceFull bool) error {
	_, dirtyRows := f.Screen.DirtySnapshot()
	for y := 0; y < f.Rows; y++ {
		if !forceFull && !dirtyRows[y] {
			continue
		}
		r.drawRow(f, y)
	}
	f.Screen.ClearDirty()
	return nil
}

func (r *Renderer) drawRow(f render.Frame, y int) {
	s := f.Screen
	runes := make([]rune, 0, f.Cols)
	widths := make([]int, 0, f.Cols)
	cells := make([]screen.Cell, 0, f.Cols)
	for x := 0; x < f.Cols; x++ {
		c := s.Cell(x, y)
		if c.Width == 0 {
			continue
		}
		runes = append(runes, c.Rune)
		widths = append(widths, c.Width)
		cells = append(cells, c)
	}

	hash := render.HashCells(runes, widths)
	var clusters []textshape.Cluster
	if run, ok := r.lines.Get(y, hash); ok && !r.cfg.BidirectionalText {
		// Unchanged row text: reuse the shaped run, still drawing the row.
		for _, g := range run {
			clusters = append(clusters, textshape.Cluster{Base: g.R, Width: g.Width})
		}
	} else {
		if r.cfg.UnicodeSupport {
			runes = textshape.Normalize(runes)
		}
		clusters = textshape.Segment(runes)
		if r.cfg.BidirectionalText {
			clusters = textshape.Reorder(clusters)
		}
	}

	py0 := (f.Y + y) * r.cellH
	col := 0
	for i, cluster := range clusters {
		px0 := (f.X + col) * r.cellW
		var cellAttrs screen.Cell
		if i < len(cells) {
			cellAttrs = cells[i]
		}
		r.drawCell(px0, py0, cluster.Base, cellAttrs)
		col += cluster.Width
	}

	run := make([]render.ShapedGlyph, len(clusters))
	for i, c := range clusters {
		run[i] = render.ShapedGlyph{R: c.Base, Width: c.Width}
	}
	r.lines.Put(y, hash, run)
}

func (r *Renderer) drawCell(px, py int, ch rune, cell screen.Cell) {
	bg := resolveColor(cell.Bg, color.RGBA{0, 0, 0, 255})
	fg := resolveColor(cell.Fg, color.RGBA{229, 229, 229, 255})
	if cell.HasFlag(screen.AttrReverse) {
		fg, bg = bg, fg
	}

	rect := image.Rect(px, py, px+r.cellW, py+r.cellH)
	draw.Draw(r.img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	if ch == ' ' || ch == 0 {
		return
	}
	if cell.HasFlag(screen.AttrInvisible) {
		return
	}

	bitmap, w, h := r.glyphBitmap(ch, cell)
	r.blendGlyph(px, py, bitmap, w, h, fg)
}

// glyphBitmap resolves the alpha-coverage bitmap for ch, going through the
// atlas so a repeated glyph is rasterized (and pool-allocated) once per
// cell size/style rather than every frame. A miss rasterizes via the font
// source, reserves the bitmap's backing bytes in the memory pool, and
// inserts it into the atlas; when the atlas has no room even after
// evicting its LRU entry, the glyph is still drawn for this frame, just
// unatlased.
func (r *Renderer) glyphBitmap(ch rune, cell screen.Cell) ([]byte, int, int) {
	key := render.GlyphKey{
		R: ch, CellW: r.cellW, CellH: r.cellH,
		Bold:   cell.HasFlag(screen.AttrBold),
		Italic: cell.HasFlag(screen.AttrItalic),
	}
	if slot, ok := r.atlas.Lookup(key); ok {
		return r.atlasBitmap(slot), slot.W, slot.H
	}

	bitmap, w, h, ok := r.font.Glyph(ch, r.cellW, r.cellH)
	if !ok {
		bitmap, w, h = BitmapFallback(ch, r.cellW, r.cellH), r.cellW, r.cellH
	}

	if _, err := r.pool.Alloc(render.BlockGlyph, w*h); err != nil {
		return bitmap, w, h
	}
	slot, err := r.atlas.Insert(key, bitmap, w, h)
	if err != nil {
		return bitmap, w, h
	}
	return r.atlasBitmap(slot), slot.W, slot.H
}

// atlasBitmap copies a slot's coverage bytes out of the atlas's shared
// alpha texture into a standalone row-major buffer blendGlyph expects.
func (r *Renderer) atlasBitmap(slot render.AtlasSlot) []byte {
	pixels := r.atlas.Pixels()
	out := make([]byte, slot.W*slot.H)
	for row := 0; row < slot.H; row++ {
		for col := 0; col < slot.W; col++ {
			out[row*slot.W+col] = pixels.AlphaAt(slot.X+col, slot.Y+row).A
		}
	}
	return out
}

func (r *Renderer) blendGlyph(px, py int, bitmap []byte, w, h int, fg color.RGBA) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := bitmap[y*w+x]
			if a == 0 {
				continue
			}
			blendPixel(r.img, px+x, py+y, fg, a)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, fg color.RGBA, alpha byte) {
	if x < 0 || y < 0 || x >= img.Rect.Dx() || y >= img.Rect.Dy() {
		return
	}
	bg := img.RGBAAt(x, y)
	a := float64(alpha) / 255.0
	out := color.RGBA{
		R: blendChannel(bg.R, fg.R, a),
		G: blendChannel(bg.G, fg.G, a),
		B: blendChannel(bg.B, fg.B, a),
		A: 255,
	}
	img.SetRGBA(x, y, out)
}

func blendChannel(bg, fg byte, a float64) byte {
	return byte(float64(bg)*(1-a) + float64(fg)*a)
}

func resolveColor(c screen.Color, def color.RGBA) color.RGBA {
	switch c.Kind {
	case screen.ColorDefault:
		return def
	case screen.ColorTrueColor:
		return color.RGBA{c.R, c.G, c.B, 255}
	case screen.ColorNamed:
		return namedPalette[c.Index%len(namedPalette)]
	case screen.ColorIndexed:
		return indexedColor(c.Index)
	}
	return def
}

var namedPalette = [16]color.RGBA{
	{0, 0, 0, 255}, {205, 0, 0, 255}, {0, 205, 0, 255}, {205, 205, 0, 255},
	{0, 0, 238, 255}, {205, 0, 205, 255}, {0, 205, 205, 255}, {229, 229, 229, 255},
	{127, 127, 127, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}, {255, 255, 0, 255},
	{92, 92, 255, 255}, {255, 0, 255, 255}, {0, 255, 255, 255}, {255, 255, 255, 255},
}

// indexedColor resolves the 256-color xterm palette: 0-15 named, 16-231
// the 6x6x6 color cube, 232-255 the grayscale ramp.
func indexedColor(i int) color.RGBA {
	if i < 16 {
		return namedPalette[i]
	}
	if i < 232 {
		i -= 16
		r := (i / 36) % 6
		g := (i / 6) % 6
		b := i % 6
		return color.RGBA{cubeLevel(r), cubeLevel(g), cubeLevel(b), 255}
	}
	level := byte(8 + (i-232)*10)
	return color.RGBA{level, level, level, 255}
}

func cubeLevel(n int) byte {
	if n == 0 {
		return 0
	}
	return byte(55 + n*40)
}
