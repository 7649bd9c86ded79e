// Package render defines the renderer contract shared by the GPU backend
// (internal/render/gpu) and the CPU fallback (internal/render/cpu): a
// glyph pipeline, a texture atlas with LRU eviction, a typed memory pool,
// and a per-line cache keyed on content hash.
package render

import (
	"github.com/sare/sare/internal/screen"
)

// FontSource resolves runes to rasterizable glyphs; internal/render/cpu's
// implementation wraps golang.org/x/image/font, and any GPU backend wraps
// the same interface around its own glyph source.
type FontSource interface {
	// Glyph rasterizes r at the given pixel cell size, returning alpha
	// coverage bytes (row-major, one byte per pixel) and the bitmap's
	// dimensions. ok is false when the font has no glyph for r, in which
	// case the caller falls back to the bitmap font.
	Glyph(r rune, cellW, cellH int) (bitmap []byte, w, h int, ok bool)
	// Metrics returns the font's fixed advance width and line height in
	// pixels for the configured size.
	Metrics() (advance, height int)
}

// Config holds the renderer's feature toggles and resource limits.
type Config struct {
	UnicodeSupport        bool
	BidirectionalText     bool
	LigatureSupport       bool
	GPUAcceleration       bool
	TextureAtlasing       bool
	MemoryPooling         bool
	MaxAtlasSize          int
	MaxMemoryUsage        int
	LineWrappingWidth     int
	SubpixelAntialiasing  bool
}

// DefaultConfig matches a reasonable out-of-the-box terminal profile.
func DefaultConfig() Config {
	return Config{
		UnicodeSupport:    true,
		BidirectionalText: true,
		LigatureSupport:   true,
		GPUAcceleration:   true,
		TextureAtlasing:   true,
		MemoryPooling:     true,
		MaxAtlasSize:      2048,
		MaxMemoryUsage:    64 << 20,
		LineWrappingWidth: 0,
	}
}

// ErrKind classifies a renderer failure: FontNotFound, AtlasFull, Oom,
// and DeviceLost are all recoverable by their respective fallback paths.
type ErrKind int

const (
	ErrFontNotFound ErrKind = iota
	ErrAtlasFull
	ErrOom
	ErrDeviceLost
)

type Error struct {
	Kind ErrKind
	Op   string
}

func (e *Error) Error() string { return "render: " + e.Op }

// Frame is one renderer present call: the screen to draw and the pane
// rectangle it occupies, in cell coordinates.
type Frame struct {
	Screen *screen.Screen
	X, Y   int
	Cols, Rows int
}

// Renderer is the contract both backends satisfy. Present draws the
// screen's dirty region (or the whole screen, when forceFull is set) and
// clears the screen's dirty tracker once drawn.
type Renderer interface {
	Present(f Frame, forceFull bool) error
	Resize(cols, rows, cellW, cellH int) error
	Close() error
}
