package ansi

// Kind discriminates the semantic commands emitted by the parser. Commands
// are a sum type modeled as a tagged struct (spec design notes §9:
// "exception-like error returns... model as sum-typed results") rather than
// an interface per variant, so Screen's dispatch is a single exhaustive
// switch instead of N type assertions per byte.
type Kind int

const (
	KindPrint Kind = iota
	KindExecute // C0 control: LF, CR, BS, HT, BEL, ...

	KindCursorUp
	KindCursorDown
	KindCursorForward
	KindCursorBackward
	KindCursorNextLine
	KindCursorPrevLine
	KindCursorHorizontalAbsolute
	KindCursorVerticalAbsolute
	KindCursorPosition

	KindEraseInDisplay
	KindEraseInLine
	KindInsertLines
	KindDeleteLines
	KindInsertChars
	KindDeleteChars
	KindEraseChars
	KindScrollUp
	KindScrollDown
	KindSetScrollRegion

	KindSGR

	KindSetMode
	KindResetMode
	KindSetPrivateMode
	KindResetPrivateMode

	KindSaveCursor
	KindRestoreCursor

	KindSetTitle
	KindHyperlink
	KindColorQuery
	KindClipboard

	KindDesignateCharset
	KindShiftOut
	KindShiftIn

	KindDeviceAttributes
	KindDeviceStatusReport
	KindRequestMode

	KindHardReset // RIS
	KindIndex
	KindReverseIndex
	KindNextLineEsc

	KindTabSet
	KindTabClear

	KindUnknown
)

// SGRAttr is one parsed SGR sub-command applied left to right.
type SGRAttr struct {
	Reset        bool
	Bold         *bool
	Dim          *bool
	Italic       *bool
	Underline    *bool
	DoubleUnder  *bool
	Blink        *bool
	Reverse      *bool
	Strike       *bool
	Invisible    *bool
	DefaultFg    bool
	DefaultBg    bool
	Fg           *Color
	Bg           *Color
	UnderlineClr *Color
}

// ColorMode distinguishes the three SGR color encodings.
type ColorMode int

const (
	ColorNamed ColorMode = iota
	ColorIndexed
	ColorTrueColor
)

// Color is a parsed foreground/background color in one of the three
// encodings: named-16, indexed-256 or truecolor RGB.
type Color struct {
	Mode  ColorMode
	Index int // named (0-15) or indexed (0-255)
	R, G, B uint8
}

// Command is one semantic unit produced by Parser.Parse.
type Command struct {
	Kind Kind

	R rune // KindPrint

	Params []int // raw CSI parameters, default-expanded per command

	// Cursor motion / erase / edit counts (default-1 semantics already applied).
	N int

	Mode int // erase mode, DECSET/DECRST number, SM/RM number

	SGR []SGRAttr

	Text string // OSC string payload (title, hyperlink URL, clipboard base64, ...)
	OSC  int    // OSC numeric prefix (0, 1, 2, 8, 52, ...)
	LinkID string // hyperlink id, parsed out of the OSC 8 params

	CharsetIndex int  // G0-G3 (0-3) for KindDesignateCharset
	Charset      byte // final byte designating the charset (B, 0, A, ...)

	Private bool // '?' prefix seen on a CSI (DECSET/DECRST/DECRQM)
}
