package cpu

import (
	"testing"

	"github.com/sare/sare/internal/ansi"
	"github.com/sare/sare/internal/render"
	"github.com/sare/sare/internal/screen"
)

type stubFont struct{ w, h int }

func (f *stubFont) Metrics() (int, int) { return f.w, f.h }
func (f *stubFont) Glyph(r rune, cellW, cellH int) ([]byte, int, int, bool) {
	return nil, 0, 0, false
}
func (f *stubFont) Close() error { return nil }

func newTestScreen(t *testing.T) *screen.Screen {
	t.Helper()
	s := screen.New(10, 4, 100)
	return s
}

func TestPresentClearsDirtyRows(t *testing.T) {
	s := newTestScreen(t)
	r := New(&stubFont{w: 8, h: 16}, render.DefaultConfig(), 10, 4)

	frame := render.Frame{Screen: s, X: 0, Y: 0, Cols: 10, Rows: 4}
	if err := r.Present(frame, true); err != nil {
		t.Fatalf("Present: %v", err)
	}

	_, dirty := s.DirtySnapshot()
	if len(dirty) != 0 {
		t.Fatalf("expected dirty cleared after Present, got %v", dirty)
	}
}

func TestPresentFallsBackToBitmapGlyph(t *testing.T) {
	s := newTestScreen(t)
	ansi.NewParser().Parse([]byte("1"), s.Apply)
	r := New(&stubFont{w: 8, h: 16}, render.DefaultConfig(), 10, 4)
	frame := render.Frame{Screen: s, X: 0, Y: 0, Cols: 10, Rows: 4}

	if err := r.Present(frame, true); err != nil {
		t.Fatalf("Present: %v", err)
	}
	img := r.Image()
	if img.Bounds().Dx() != 10*8 || img.Bounds().Dy() != 4*16 {
		t.Fatalf("unexpected framebuffer size: %v", img.Bounds())
	}
	// The stub font has no glyphs, so '1' comes from the 5x5 fallback,
	// whose top row lights only the middle column (pixel x=4 at 8px wide).
	if got := img.RGBAAt(4, 0); got.R != 229 || got.G != 229 || got.B != 229 {
		t.Fatalf("fallback glyph pixel (4,0) = %+v, want default foreground", got)
	}
}

func TestResizeReplacesFramebufferAndLineCache(t *testing.T) {
	r := New(&stubFont{w: 8, h: 16}, render.DefaultConfig(), 10, 4)
	oldLines := r.lines
	if err := r.Resize(20, 8, 10, 18); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	img := r.Image()
	if img.Bounds().Dx() != 20*10 || img.Bounds().Dy() != 8*18 {
		t.Fatalf("unexpected resized framebuffer: %v", img.Bounds())
	}
	if r.lines == oldLines {
		t.Fatal("expected Resize to replace the line cache")
	}
}

// countingFont rasterizes a solid glyph and counts how many times Glyph
// is actually invoked, to prove the atlas/pool path (not a per-frame
// rasterize) backs repeated draws of the same rune.
type countingFont struct {
	w, h  int
	calls int
}

func (f *countingFont) Metrics() (int, int) { return f.w, f.h }
func (f *countingFont) Glyph(r rune, cellW, cellH int) ([]byte, int, int, bool) {
	f.calls++
	bitmap := make([]byte, cellW*cellH)
	for i := range bitmap {
		bitmap[i] = 255
	}
	return bitmap, cellW, cellH, true
}
func (f *countingFont) Close() error { return nil }

func TestRepeatedGlyphIsRasterizedOnceViaAtlas(t *testing.T) {
	s := screen.New(10, 2, 100)
	p := ansi.NewParser()
	p.Parse([]byte("aaaa"), func(c ansi.Command) { s.Apply(c) })

	font := &countingFont{w: 8, h: 16}
	r := New(font, render.DefaultConfig(), 10, 2)
	frame := render.Frame{Screen: s, X: 0, Y: 0, Cols: 10, Rows: 2}
	if err := r.Present(frame, true); err != nil {
		t.Fatalf("Present: %v", err)
	}

	if font.calls != 1 {
		t.Fatalf("font.Glyph called %d times for 4 identical cells, want 1 (atlas should cache the rest)", font.calls)
	}

	key := render.GlyphKey{R: 'a', CellW: 8, CellH: 16}
	if _, ok := r.atlas.Lookup(key); !ok {
		t.Fatal("expected the rasterized glyph to be resident in the atlas")
	}
	if r.pool.Stats()[render.BlockGlyph] == 0 {
		t.Fatal("expected the glyph pool to have committed bytes for the cached glyph")
	}
}

func TestIndexedColorCube(t *testing.T) {
	c := indexedColor(16) // first cube entry: r=g=b=0
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected black at index 16, got %+v", c)
	}
	gray := indexedColor(232) // first grayscale ramp entry
	if gray.R != 8 || gray.G != 8 || gray.B != 8 {
		t.Fatalf("expected level 8 gray at index 232, got %+v", gray)
	}
}
