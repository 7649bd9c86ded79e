package screen

import (
	"fmt"

	"github.com/sare/sare/internal/ansi"
)

// applySGR applies a sequence of parsed SGR sub-commands to the cursor pen,
// left to right; cmd.SGR is never empty (the parser always emits at least
// one attribute, "reset" for a bare CSI m).
func (s *Screen) applySGR(attrs []ansi.SGRAttr) {
	for _, a := range attrs {
		if a.Reset {
			s.cursor.Attrs = 0
			s.cursor.Fg = defaultColor
			s.cursor.Bg = defaultColor
			continue
		}
		setFlag(&s.cursor.Attrs, AttrBold, a.Bold)
		setFlag(&s.cursor.Attrs, AttrDim, a.Dim)
		setFlag(&s.cursor.Attrs, AttrItalic, a.Italic)
		setFlag(&s.cursor.Attrs, AttrUnderline, a.Underline)
		setFlag(&s.cursor.Attrs, AttrDoubleUnderline, a.DoubleUnder)
		setFlag(&s.cursor.Attrs, AttrBlink, a.Blink)
		setFlag(&s.cursor.Attrs, AttrReverse, a.Reverse)
		setFlag(&s.cursor.Attrs, AttrStrikethrough, a.Strike)
		setFlag(&s.cursor.Attrs, AttrInvisible, a.Invisible)

		if a.DefaultFg {
			s.cursor.Fg = defaultColor
		}
		if a.DefaultBg {
			s.cursor.Bg = defaultColor
		}
		if a.Fg != nil {
			s.cursor.Fg = convertColor(*a.Fg)
		}
		if a.Bg != nil {
			s.cursor.Bg = convertColor(*a.Bg)
		}
	}
}

func setFlag(attrs *AttrFlags, f AttrFlags, v *bool) {
	if v == nil {
		return
	}
	if *v {
		*attrs |= f
	} else {
		*attrs &^= f
	}
}

func convertColor(c ansi.Color) Color {
	switch c.Mode {
	case ansi.ColorNamed:
		return Color{Kind: ColorNamed, Index: c.Index}
	case ansi.ColorIndexed:
		return Color{Kind: ColorIndexed, Index: c.Index}
	case ansi.ColorTrueColor:
		return Color{Kind: ColorTrueColor, R: c.R, G: c.G, B: c.B}
	}
	return defaultColor
}

// setANSIMode handles SM/RM (no '?' prefix): currently only IRM (4).
func (s *Screen) setANSIMode(mode int, set bool) {
	if mode == modeIRM {
		s.Modes.IRM = set
	}
}

// setDECMode handles DECSET/DECRST ('?' prefix), including the alt-screen
// switch (1047/1049) with its cursor save/restore semantics.
func (s *Screen) setDECMode(mode int, set bool) {
	switch mode {
	case modeDECCKM:
		s.Modes.DECCKM = set
	case modeDECOM:
		s.Modes.DECOM = set
		s.clampCursor()
	case modeDECAWM:
		s.Modes.DECAWM = set
	case modeMouseX10:
		if set {
			s.Modes.Mouse = MouseX10
		} else if s.Modes.Mouse == MouseX10 {
			s.Modes.Mouse = MouseOff
		}
	case modeMouseVT200:
		if set {
			s.Modes.Mouse = MouseVT200
		} else if s.Modes.Mouse == MouseVT200 {
			s.Modes.Mouse = MouseOff
		}
	case modeMouseButton:
		if set {
			s.Modes.Mouse = MouseButtonEvent
		} else if s.Modes.Mouse == MouseButtonEvent {
			s.Modes.Mouse = MouseOff
		}
	case modeMouseAny:
		if set {
			s.Modes.Mouse = MouseAnyEvent
		} else if s.Modes.Mouse == MouseAnyEvent {
			s.Modes.Mouse = MouseOff
		}
	case modeMouseUTF8:
		s.Modes.MouseUTF8 = set
	case modeMouseSGR:
		s.Modes.MouseSGR = set
	case modeMouseURXVT:
		s.Modes.MouseURXVT = set
	case modeFocus:
		s.Modes.FocusReporting = set
	case modeApplicationKey:
		s.Modes.ApplicationKey = set
	case modeBracketedPaste:
		s.Modes.BracketedPaste = set
	case modeAltScreen47:
		s.switchAltScreen(set, false)
	case modeAltScreenSave, modeAltScreenCur:
		s.switchAltScreen(set, true)
	case modeAltScreenFull:
		s.switchAltScreen(set, true)
	}
}

// switchAltScreen enters or leaves the alternate buffer. withCursor also
// saves/restores the cursor, matching 1047/1048/1049 versus bare 47.
func (s *Screen) switchAltScreen(enter, withCursor bool) {
	if enter == s.onAlt {
		return
	}
	if enter {
		if withCursor {
			s.saveCursor()
		}
		s.onAlt = true
		s.active = s.alternate
		s.eraseInDisplay(2)
		s.Modes.AltScreen = true
	} else {
		s.onAlt = false
		s.active = s.primary
		if withCursor {
			s.restoreCursor()
		}
		s.Modes.AltScreen = false
	}
	s.dirty.mark(0, 0, s.cols, s.rows)
}

// hardReset implements RIS: both buffers cleared, modes and charsets back
// to their power-on defaults, cursor home, scroll region full screen.
func (s *Screen) hardReset() {
	s.primary = newBuffer(s.cols, s.rows)
	s.alternate = newBuffer(s.cols, s.rows)
	s.active = s.primary
	s.onAlt = false
	s.cursor = Cursor{Visible: true, Fg: defaultColor, Bg: defaultColor}
	s.saved = SavedCursor{}
	s.scrollTop = 0
	s.scrollBottom = s.rows - 1
	s.charsets = [4]byte{'B', 'B', 'B', 'B'}
	s.gl = 0
	s.Modes = defaultModes()
	s.resetTabStops()
	s.dirty.mark(0, 0, s.cols, s.rows)
}

// respondDA answers the CSI c primary Device Attributes query: VT320 with
// the feature set this emulator actually implements.
func (s *Screen) respondDA() {
	s.respond("\x1b[?63;1;2;6;8;9;15;22c")
}

// respondDSR answers CSI n Device Status Report: 5 -> OK status, 6 -> cursor
// position report (CPR), 1-indexed.
func (s *Screen) respondDSR(n int) {
	switch n {
	case 5:
		s.respond("\x1b[0n")
	case 6:
		s.respond(fmt.Sprintf("\x1b[%d;%dR", s.cursor.Y+1, s.cursor.X+1))
	}
}

// respondDECRQM answers CSI ? Ps $ p with the current state of a private
// mode: 0 not recognized, 1 set, 2 reset, 3 permanently set, 4 permanently reset.
func (s *Screen) respondDECRQM(mode int, private bool) {
	if !private {
		s.respond(fmt.Sprintf("\x1b[%d;0$y", mode))
		return
	}
	state := 2
	switch mode {
	case modeDECCKM:
		state = boolState(s.Modes.DECCKM)
	case modeDECOM:
		state = boolState(s.Modes.DECOM)
	case modeDECAWM:
		state = boolState(s.Modes.DECAWM)
	case modeAltScreenFull, modeAltScreenSave, modeAltScreen47, modeAltScreenCur:
		state = boolState(s.onAlt)
	case modeBracketedPaste:
		state = boolState(s.Modes.BracketedPaste)
	case modeFocus:
		state = boolState(s.Modes.FocusReporting)
	default:
		state = 0
	}
	s.respond(fmt.Sprintf("\x1b[?%d;%d$y", mode, state))
}

func boolState(v bool) int {
	if v {
		return 1
	}
	return 2
}

func (s *Screen) respond(text string) {
	if s.WriteResponse != nil {
		s.WriteResponse([]byte(text))
	}
}
