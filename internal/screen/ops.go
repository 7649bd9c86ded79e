package screen

import "github.com/mattn/go-runewidth"

// print places a grapheme at the cursor, respecting IRM (insert vs
// replace), advances the cursor by the rune's display width, and wraps at
// the right margin when DECAWM is set.
func (s *Screen) print(r rune) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		w = 1
	}

	if s.cursor.pendingWrap {
		if s.Modes.DECAWM {
			s.active.wrap[s.cursor.Y] = true
			s.lineFeed()
			s.cursor.X = 0
		}
		s.cursor.pendingWrap = false
	}

	if s.cursor.X+w > s.cols {
		if s.Modes.DECAWM {
			s.active.wrap[s.cursor.Y] = true
			s.lineFeed()
			s.cursor.X = 0
		} else {
			s.cursor.X = s.cols - w
			if s.cursor.X < 0 {
				s.cursor.X = 0
			}
		}
	}

	y := s.cursor.Y
	x := s.cursor.X

	if s.Modes.IRM {
		row := s.active.cells[y]
		copy(row[x+w:], row[x:len(row)-w])
		for i := x; i < x+w && i < len(row); i++ {
			row[i] = NewCell()
		}
	}

	cell := s.active.cell(x, y)
	*cell = Cell{Rune: r, Fg: s.cursor.Fg, Bg: s.cursor.Bg, Attrs: s.cursor.Attrs, Width: w}

	for i := 1; i < w && x+i < s.cols; i++ {
		spacer := s.active.cell(x+i, y)
		*spacer = Cell{Rune: 0, Fg: s.cursor.Fg, Bg: s.cursor.Bg, Attrs: s.cursor.Attrs, Width: 0}
	}

	s.markDirty(x, y, x+w, y+1)

	s.cursor.X += w
	if s.cursor.X >= s.cols {
		s.cursor.X = s.cols - 1
		s.cursor.pendingWrap = true
	}
}

func (s *Screen) execute(b byte) {
	switch b {
	case '\n':
		s.lineFeed()
	case '\r':
		s.cursor.X = 0
		s.cursor.pendingWrap = false
	case '\b':
		if s.cursor.X > 0 {
			s.cursor.X--
		}
		s.cursor.pendingWrap = false
	case '\t':
		s.cursor.X = s.nextTabStop(s.cursor.X)
		s.cursor.pendingWrap = false
	case '\a':
		// bell: no visual effect on the model, host may beep.
	}
}

func (s *Screen) nextTabStop(from int) int {
	for x := from + 1; x < s.cols; x++ {
		if x < len(s.tabStops) && s.tabStops[x] {
			return x
		}
	}
	return s.cols - 1
}

// lineFeed moves the cursor down one row, scrolling the scroll region
// (and pushing the evicted row into scrollback when the region spans the
// whole screen starting at row 0) on overflow.
func (s *Screen) lineFeed() {
	if s.cursor.Y == s.scrollBottom {
		s.scrollRegionUp(1)
		return
	}
	if s.cursor.Y < s.rows-1 {
		s.cursor.Y++
	}
	s.cursor.pendingWrap = false
}

func (s *Screen) index() { s.lineFeed() }

func (s *Screen) reverseIndex() {
	if s.cursor.Y == s.scrollTop {
		s.active.scrollDown(s.scrollTop, s.scrollBottom, 1)
		s.markDirtyRows(s.scrollTop, s.scrollBottom+1)
		return
	}
	if s.cursor.Y > 0 {
		s.cursor.Y--
	}
	s.cursor.pendingWrap = false
}

// scrollRegionUp scrolls [scrollTop, scrollBottom] up by n. Lines are
// pushed into scrollback only when the region is the full screen and we
// are on the primary buffer — matching real terminals, which never grow
// scrollback from inside a restricted scroll region or the alt screen.
func (s *Screen) scrollRegionUp(n int) {
	evicted := s.active.scrollUp(s.scrollTop, s.scrollBottom, n)
	if !s.onAlt && s.scrollTop == 0 && s.scrollBottom == s.rows-1 {
		for _, line := range evicted {
			s.scrollback.Push(line)
		}
	}
	s.markDirtyRows(s.scrollTop, s.scrollBottom+1)
}

// eraseInDisplay implements CSI J, modes 0 (cursor to end), 1 (start to
// cursor), 2 (whole screen), 3 (whole screen + scrollback).
func (s *Screen) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseInLine(0)
		for y := s.cursor.Y + 1; y < s.rows; y++ {
			s.active.clearRow(y)
		}
		s.markDirtyRows(s.cursor.Y, s.rows)
	case 1:
		s.eraseInLine(1)
		for y := 0; y < s.cursor.Y; y++ {
			s.active.clearRow(y)
		}
		s.markDirtyRows(0, s.cursor.Y+1)
	case 2:
		for y := 0; y < s.rows; y++ {
			s.active.clearRow(y)
		}
		s.markDirtyRows(0, s.rows)
	case 3:
		for y := 0; y < s.rows; y++ {
			s.active.clearRow(y)
		}
		s.scrollback.Clear()
		s.markDirtyRows(0, s.rows)
	}
}

// eraseInLine implements CSI K, modes 0 (cursor to end), 1 (start to
// cursor), 2 (whole line).
func (s *Screen) eraseInLine(mode int) {
	y := s.cursor.Y
	row := s.active.cells[y]
	switch mode {
	case 0:
		for x := s.cursor.X; x < s.cols; x++ {
			row[x] = NewCell()
		}
	case 1:
		for x := 0; x <= s.cursor.X && x < s.cols; x++ {
			row[x] = NewCell()
		}
	case 2:
		for x := 0; x < s.cols; x++ {
			row[x] = NewCell()
		}
	}
	s.markDirty(0, y, s.cols, y+1)
}

func (s *Screen) insertChars(n int) {
	y := s.cursor.Y
	row := s.active.cells[y]
	x := s.cursor.X
	if n > s.cols-x {
		n = s.cols - x
	}
	copy(row[x+n:], row[x:s.cols-n])
	for i := x; i < x+n; i++ {
		row[i] = NewCell()
	}
	s.markDirty(x, y, s.cols, y+1)
}

func (s *Screen) deleteChars(n int) {
	y := s.cursor.Y
	row := s.active.cells[y]
	x := s.cursor.X
	if n > s.cols-x {
		n = s.cols - x
	}
	copy(row[x:], row[x+n:])
	for i := s.cols - n; i < s.cols; i++ {
		row[i] = NewCell()
	}
	s.markDirty(x, y, s.cols, y+1)
}

func (s *Screen) eraseChars(n int) {
	y := s.cursor.Y
	row := s.active.cells[y]
	x := s.cursor.X
	end := x + n
	if end > s.cols {
		end = s.cols
	}
	for i := x; i < end; i++ {
		row[i] = NewCell()
	}
	s.markDirty(x, y, end, y+1)
}

// setScrollRegion implements DECSTBM (CSI r): a bottom of 0 means "to the
// last row". Per DEC spec, an invalid region (top >= bottom) is ignored,
// and the cursor homes to the scroll region's top-left.
func (s *Screen) setScrollRegion(top, bottom int) {
	if bottom == 0 || bottom > s.rows {
		bottom = s.rows
	}
	top--
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom >= s.rows {
		bottom = s.rows - 1
	}
	if top >= bottom {
		return
	}
	s.scrollTop = top
	s.scrollBottom = bottom
	s.cursor.Y = s.effectiveTop()
	s.cursor.X = 0
	s.cursor.pendingWrap = false
}

func (s *Screen) clearTabs(mode int) {
	switch mode {
	case 0:
		if s.cursor.X < len(s.tabStops) {
			s.tabStops[s.cursor.X] = false
		}
	case 3:
		for i := range s.tabStops {
			s.tabStops[i] = false
		}
	}
}

func (s *Screen) saveCursor() {
	s.saved = SavedCursor{Cursor: s.cursor, GL: s.gl, Charset: s.charsets, DECAWM: s.Modes.DECAWM}
}

func (s *Screen) restoreCursor() {
	s.cursor = s.saved.Cursor
	s.gl = s.saved.GL
	s.charsets = s.saved.Charset
	s.Modes.DECAWM = s.saved.DECAWM
	s.clampCursor()
}

// Resize reflows the primary buffer using row wrap bits so soft-wrapped
// lines are rejoined then re-broken at the new width; the alternate
// buffer is clipped/padded with defaults instead of reflowed.
func (s *Screen) Resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}
	s.primary = reflow(s.primary, cols, rows)
	s.alternate = clipOrPad(s.alternate, cols, rows)
	s.cols, s.rows = cols, rows
	if s.active == s.primary || s.onAlt == false {
		s.active = s.primary
	}
	if s.onAlt {
		s.active = s.alternate
	}
	s.scrollTop = 0
	s.scrollBottom = rows - 1
	s.clampCursor()
	s.resetTabStops()
	s.dirty.mark(0, 0, cols, rows)
}

// reflow rejoins soft-wrapped logical lines and re-breaks them at the new
// column width, preserving all visible content.
func reflow(b *Buffer, newCols, newRows int) *Buffer {
	var logical [][]Cell
	var cur []Cell
	for y := 0; y < b.rows; y++ {
		cur = append(cur, b.cells[y]...)
		if !b.wrap[y] {
			logical = append(logical, cur)
			cur = nil
		}
	}
	if cur != nil {
		logical = append(logical, cur)
	}

	out := newBuffer(newCols, newRows)
	row := 0
	for _, line := range logical {
		// Trim trailing default cells before re-wrapping so empty tail
		// space doesn't consume extra rows.
		end := len(line)
		for end > 0 && line[end-1].Rune == ' ' && line[end-1].Attrs == 0 {
			end--
		}
		line = line[:end]
		if len(line) == 0 {
			if row < newRows {
				row++
			}
			continue
		}
		for off := 0; off < len(line); off += newCols {
			if row >= newRows {
				break
			}
			chunk := line[off:min(off+newCols, len(line))]
			copy(out.cells[row], chunk)
			if off+newCols < len(line) {
				out.wrap[row] = true
			}
			row++
		}
	}
	return out
}

func clipOrPad(b *Buffer, newCols, newRows int) *Buffer {
	out := newBuffer(newCols, newRows)
	for y := 0; y < min(newRows, b.rows); y++ {
		copy(out.cells[y], b.cells[y][:min(newCols, b.cols)])
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
