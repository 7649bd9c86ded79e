package screen

import "github.com/sare/sare/internal/ansi"

// Cursor is the terminal's cursor position and pen state.
type Cursor struct {
	X, Y    int
	Visible bool
	Blink   bool
	Fg, Bg  Color
	Attrs   AttrFlags
	pendingWrap bool // right-margin reached, next print wraps first
}

// SavedCursor is the cursor + pen + charset state captured by DECSC/the
// alt-screen switch, restored by DECRC/the matching switch-back.
type SavedCursor struct {
	Cursor  Cursor
	GL      int
	Charset [4]byte
	DECAWM  bool
}

// Screen is the full VT100/VT220/VT320-compatible screen model: two
// independent buffers (primary/alternate), cursor, scroll region, tab
// stops, character-set tables, mode flags, scrollback and dirty tracking.
type Screen struct {
	cols, rows int

	primary   *Buffer
	alternate *Buffer
	active    *Buffer
	onAlt     bool

	cursor Cursor
	saved  SavedCursor

	scrollTop, scrollBottom int

	tabStops []bool

	// G0-G3 designated charsets (final byte of the SCS sequence; 'B' = ASCII/US).
	charsets [4]byte
	gl       int // index of the currently invoked G-set (0-3)

	Modes Modes

	scrollback *Scrollback

	dirty *dirtyTracker

	// WriteResponse, when set, is invoked with bytes the emulator must
	// write back to the PTY master (DA, DSR/CPR and DECRQM replies).
	// Kept as an injected callback rather than a
	// direct PTY reference so Screen stays testable in isolation.
	WriteResponse func([]byte)
}

// New creates a cols x rows screen with default attributes, cursor at
// (0,0), full-screen scroll region, and the given scrollback capacity.
func New(cols, rows, scrollbackLines int) *Screen {
	s := &Screen{
		cols: cols, rows: rows,
		primary:      newBuffer(cols, rows),
		alternate:    newBuffer(cols, rows),
		scrollTop:    0,
		scrollBottom: rows - 1,
		charsets:     [4]byte{'B', 'B', 'B', 'B'},
		Modes:        defaultModes(),
		scrollback:   NewScrollback(scrollbackLines),
		dirty:        newDirtyTracker(),
	}
	s.active = s.primary
	s.cursor.Visible = true
	s.cursor.Fg = defaultColor
	s.cursor.Bg = defaultColor
	s.resetTabStops()
	return s
}

func (s *Screen) resetTabStops() {
	s.tabStops = make([]bool, s.cols)
	for x := 0; x < s.cols; x += 8 {
		s.tabStops[x] = true
	}
}

// Size returns the current (cols, rows).
func (s *Screen) Size() (int, int) { return s.cols, s.rows }

// CursorPos returns the cursor's (row, col), always within [0,rows) x [0,cols).
func (s *Screen) CursorPos() (int, int) { return s.cursor.Y, s.cursor.X }

// Cell returns a copy of the cell at (x, y) in the active buffer.
func (s *Screen) Cell(x, y int) Cell {
	if x < 0 || x >= s.cols || y < 0 || y >= s.rows {
		return NewCell()
	}
	return *s.active.cell(x, y)
}

// Scrollback exposes the read-only scrollback ring for the renderer.
func (s *Screen) Scrollback() *Scrollback { return s.scrollback }

// DirtySnapshot returns the accumulated dirty region/rows without clearing
// them; the renderer calls ClearDirty after consuming the snapshot.
func (s *Screen) DirtySnapshot() (Rect, map[int]bool) { return s.dirty.Snapshot() }

// ClearDirty clears the dirty tracker after the renderer has presented.
func (s *Screen) ClearDirty() { s.dirty.Clear() }

func (s *Screen) effectiveTop() int {
	if s.Modes.DECOM {
		return s.scrollTop
	}
	return 0
}

func (s *Screen) effectiveBottom() int {
	if s.Modes.DECOM {
		return s.scrollBottom
	}
	return s.rows - 1
}

func (s *Screen) clampCursor() {
	if s.cursor.X < 0 {
		s.cursor.X = 0
	}
	if s.cursor.X >= s.cols {
		s.cursor.X = s.cols - 1
	}
	lo, hi := s.effectiveTop(), s.effectiveBottom()
	if s.cursor.Y < lo {
		s.cursor.Y = lo
	}
	if s.cursor.Y > hi {
		s.cursor.Y = hi
	}
}

// Apply mutates the screen for one parsed command. It is the sole entry
// point the host's PTY-reader loop calls after ansi.Parser.Parse.
func (s *Screen) Apply(cmd ansi.Command) {
	switch cmd.Kind {
	case ansi.KindPrint:
		s.print(cmd.R)
	case ansi.KindExecute:
		s.execute(byte(cmd.R))
	case ansi.KindCursorUp:
		s.moveCursor(0, -cmd.N)
	case ansi.KindCursorDown:
		s.moveCursor(0, cmd.N)
	case ansi.KindCursorForward:
		s.moveCursor(cmd.N, 0)
	case ansi.KindCursorBackward:
		s.moveCursor(-cmd.N, 0)
	case ansi.KindCursorNextLine:
		s.moveCursor(-s.cursor.X, cmd.N)
	case ansi.KindCursorPrevLine:
		s.moveCursor(-s.cursor.X, -cmd.N)
	case ansi.KindCursorHorizontalAbsolute:
		s.cursor.X = cmd.N - 1
		s.cursor.pendingWrap = false
		s.clampCursor()
	case ansi.KindCursorVerticalAbsolute:
		s.cursor.Y = s.effectiveTop() + cmd.N - 1
		s.clampCursor()
	case ansi.KindCursorPosition:
		row, col := cmd.Params[0], cmd.Params[1]
		s.cursor.Y = s.effectiveTop() + row - 1
		s.cursor.X = col - 1
		s.cursor.pendingWrap = false
		s.clampCursor()
	case ansi.KindEraseInDisplay:
		s.eraseInDisplay(cmd.Mode)
	case ansi.KindEraseInLine:
		s.eraseInLine(cmd.Mode)
	case ansi.KindInsertLines:
		s.active.insertLines(s.scrollTop, s.scrollBottom, s.cursor.Y, cmd.N)
		s.markDirtyRows(s.cursor.Y, s.scrollBottom+1)
	case ansi.KindDeleteLines:
		s.active.deleteLines(s.scrollTop, s.scrollBottom, s.cursor.Y, cmd.N)
		s.markDirtyRows(s.cursor.Y, s.scrollBottom+1)
	case ansi.KindInsertChars:
		s.insertChars(cmd.N)
	case ansi.KindDeleteChars:
		s.deleteChars(cmd.N)
	case ansi.KindEraseChars:
		s.eraseChars(cmd.N)
	case ansi.KindScrollUp:
		s.scrollRegionUp(cmd.N)
	case ansi.KindScrollDown:
		s.active.scrollDown(s.scrollTop, s.scrollBottom, cmd.N)
		s.markDirtyRows(s.scrollTop, s.scrollBottom+1)
	case ansi.KindSetScrollRegion:
		s.setScrollRegion(cmd.Params[0], cmd.Params[1])
	case ansi.KindSGR:
		s.applySGR(cmd.SGR)
	case ansi.KindSetMode:
		s.setANSIMode(cmd.Mode, true)
	case ansi.KindResetMode:
		s.setANSIMode(cmd.Mode, false)
	case ansi.KindSetPrivateMode:
		s.setDECMode(cmd.Mode, true)
	case ansi.KindResetPrivateMode:
		s.setDECMode(cmd.Mode, false)
	case ansi.KindSaveCursor:
		s.saveCursor()
	case ansi.KindRestoreCursor:
		s.restoreCursor()
	case ansi.KindIndex:
		s.index()
	case ansi.KindReverseIndex:
		s.reverseIndex()
	case ansi.KindNextLineEsc:
		s.moveCursor(-s.cursor.X, 1)
	case ansi.KindTabSet:
		if s.cursor.X < len(s.tabStops) {
			s.tabStops[s.cursor.X] = true
		}
	case ansi.KindTabClear:
		s.clearTabs(cmd.Mode)
	case ansi.KindDesignateCharset:
		if cmd.CharsetIndex >= 0 && cmd.CharsetIndex < 4 {
			s.charsets[cmd.CharsetIndex] = cmd.Charset
		}
	case ansi.KindHardReset:
		s.hardReset()
	case ansi.KindDeviceAttributes:
		s.respondDA()
	case ansi.KindDeviceStatusReport:
		s.respondDSR(cmd.N)
	case ansi.KindRequestMode:
		s.respondDECRQM(cmd.Mode, cmd.Private)
	case ansi.KindShiftOut:
		s.gl = 1
	case ansi.KindShiftIn:
		s.gl = 0
	}
}

func (s *Screen) markDirty(x0, y0, x1, y1 int) { s.dirty.mark(x0, y0, x1, y1) }
func (s *Screen) markDirtyRows(y0, y1 int)      { s.dirty.mark(0, y0, s.cols, y1) }

func (s *Screen) moveCursor(dx, dy int) {
	s.cursor.X += dx
	s.cursor.Y += dy
	s.cursor.pendingWrap = false
	s.clampCursor()
}
