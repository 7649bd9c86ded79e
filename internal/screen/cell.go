// Package screen implements the cell grid, cursor, scrollback and
// dirty-region tracking driven by the command stream produced by
// internal/ansi.
package screen

// AttrFlags is a bitmask of cell rendering attributes.
type AttrFlags uint16

const (
	AttrBold AttrFlags = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
	AttrInvisible
)

// ColorKind mirrors ansi.ColorMode: named-16, indexed-256 or truecolor RGB.
type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorNamed
	ColorIndexed
	ColorTrueColor
)

// Color is a resolved cell foreground/background color.
type Color struct {
	Kind    ColorKind
	Index   int
	R, G, B uint8
}

var defaultColor = Color{Kind: ColorDefault}

// Cell is a single grid position: grapheme cluster, colors, attributes,
// display width, and optional hyperlink id. The default renderable cell is
// NewCell(), a space; the zero Cell has rune 0 and width 0.
type Cell struct {
	Rune      rune
	Combining []rune // combining marks attached to Rune, if any
	Fg        Color
	Bg        Color
	Attrs     AttrFlags
	Width     int // 1 or 2 display columns
	Hyperlink string
	dirty     bool
}

// NewCell returns the default renderable cell: a space with default
// attributes and colors.
func NewCell() Cell {
	return Cell{Rune: ' ', Fg: defaultColor, Bg: defaultColor, Width: 1}
}

// Reset clears the cell back to its default renderable state.
func (c *Cell) Reset() {
	*c = NewCell()
}

// HasFlag reports whether the given attribute flag is set.
func (c *Cell) HasFlag(f AttrFlags) bool { return c.Attrs&f != 0 }
