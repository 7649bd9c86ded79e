package ansi

// dispatchCSI turns an accumulated CSI (params + intermediates + final
// byte) into a semantic Command. Unknown finals are dropped silently —
// the caller has already returned the parser to Ground.
func (p *Parser) dispatchCSI(final byte, emit func(Command)) {
	defer p.resetParams()

	if len(p.intermediates) == 0 {
		switch final {
		case 'A':
			emit(Command{Kind: KindCursorUp, N: p.param(0, 1)})
			return
		case 'B':
			emit(Command{Kind: KindCursorDown, N: p.param(0, 1)})
			return
		case 'C':
			emit(Command{Kind: KindCursorForward, N: p.param(0, 1)})
			return
		case 'D':
			emit(Command{Kind: KindCursorBackward, N: p.param(0, 1)})
			return
		case 'E':
			emit(Command{Kind: KindCursorNextLine, N: p.param(0, 1)})
			return
		case 'F':
			emit(Command{Kind: KindCursorPrevLine, N: p.param(0, 1)})
			return
		case 'G', '`':
			emit(Command{Kind: KindCursorHorizontalAbsolute, N: p.param(0, 1)})
			return
		case 'd':
			emit(Command{Kind: KindCursorVerticalAbsolute, N: p.param(0, 1)})
			return
		case 'H', 'f':
			emit(Command{Kind: KindCursorPosition, Params: []int{p.param(0, 1), p.param(1, 1)}})
			return
		case 'J':
			emit(Command{Kind: KindEraseInDisplay, Mode: p.param(0, 0)})
			return
		case 'K':
			emit(Command{Kind: KindEraseInLine, Mode: p.param(0, 0)})
			return
		case 'L':
			emit(Command{Kind: KindInsertLines, N: p.param(0, 1)})
			return
		case 'M':
			emit(Command{Kind: KindDeleteLines, N: p.param(0, 1)})
			return
		case 'P':
			emit(Command{Kind: KindDeleteChars, N: p.param(0, 1)})
			return
		case '@':
			emit(Command{Kind: KindInsertChars, N: p.param(0, 1)})
			return
		case 'X':
			emit(Command{Kind: KindEraseChars, N: p.param(0, 1)})
			return
		case 'S':
			emit(Command{Kind: KindScrollUp, N: p.param(0, 1)})
			return
		case 'T':
			emit(Command{Kind: KindScrollDown, N: p.param(0, 1)})
			return
		case 'm':
			emit(Command{Kind: KindSGR, SGR: p.parseSGR()})
			return
		case 'h':
			p.dispatchSetMode(true, emit)
			return
		case 'l':
			p.dispatchSetMode(false, emit)
			return
		case 's':
			emit(Command{Kind: KindSaveCursor})
			return
		case 'u':
			emit(Command{Kind: KindRestoreCursor})
			return
		case 'c':
			emit(Command{Kind: KindDeviceAttributes, Private: p.private == '?'})
			return
		case 'n':
			emit(Command{Kind: KindDeviceStatusReport, N: p.param(0, 0)})
			return
		case 'g':
			emit(Command{Kind: KindTabClear, Mode: p.param(0, 0)})
			return
		case 'r':
			emit(Command{Kind: KindSetScrollRegion, Params: []int{p.param(0, 1), p.param(1, 0)}})
			return
		}
	} else if len(p.intermediates) == 1 && p.intermediates[0] == '$' {
		if final == 'p' {
			emit(Command{Kind: KindRequestMode, Mode: p.param(0, 0), Private: p.private == '?'})
			return
		}
	}
	// Unknown final: consumed, not dispatched.
}

func (p *Parser) dispatchSetMode(set bool, emit func(Command)) {
	kind := KindSetMode
	if !set {
		kind = KindResetMode
	}
	if p.private == '?' {
		if set {
			kind = KindSetPrivateMode
		} else {
			kind = KindResetPrivateMode
		}
	}
	for i := 0; i < p.paramCount(); i++ {
		emit(Command{Kind: kind, Mode: p.param(i, 0), Private: p.private == '?'})
	}
	if p.paramCount() == 0 {
		emit(Command{Kind: kind, Mode: 0, Private: p.private == '?'})
	}
}

// parseSGR applies SGR sub-params left to right: named
// 30-37/40-47 and 90-97/100-107, indexed-256 (38;5;n / 38:5:n) and
// truecolor (38;2;r;g;b / 38:2:r:g:b); unrecognized sub-params are ignored
// rather than treated as fatal.
func (p *Parser) parseSGR() []SGRAttr {
	if p.paramCount() == 0 {
		return []SGRAttr{{Reset: true}}
	}
	var attrs []SGRAttr
	i := 0
	for i < p.paramCount() {
		sub := p.params[i]
		n := sub[0]
		switch {
		case n == 0:
			attrs = append(attrs, SGRAttr{Reset: true})
		case n == 1:
			attrs = append(attrs, boolAttr(fieldBold, true))
		case n == 2:
			attrs = append(attrs, boolAttr(fieldDim, true))
		case n == 3:
			attrs = append(attrs, boolAttr(fieldItalic, true))
		case n == 4:
			if len(sub) > 1 && sub[1] == 2 {
				attrs = append(attrs, boolAttr(fieldDoubleUnder, true))
			} else {
				attrs = append(attrs, boolAttr(fieldUnderline, true))
			}
		case n == 5 || n == 6:
			attrs = append(attrs, boolAttr(fieldBlink, true))
		case n == 7:
			attrs = append(attrs, boolAttr(fieldReverse, true))
		case n == 8:
			attrs = append(attrs, boolAttr(fieldInvisible, true))
		case n == 9:
			attrs = append(attrs, boolAttr(fieldStrike, true))
		case n == 21:
			attrs = append(attrs, boolAttr(fieldDoubleUnder, true))
		case n == 22:
			attrs = append(attrs, boolAttr(fieldBold, false), boolAttr(fieldDim, false))
		case n == 23:
			attrs = append(attrs, boolAttr(fieldItalic, false))
		case n == 24:
			attrs = append(attrs, boolAttr(fieldUnderline, false), boolAttr(fieldDoubleUnder, false))
		case n == 25:
			attrs = append(attrs, boolAttr(fieldBlink, false))
		case n == 27:
			attrs = append(attrs, boolAttr(fieldReverse, false))
		case n == 28:
			attrs = append(attrs, boolAttr(fieldInvisible, false))
		case n == 29:
			attrs = append(attrs, boolAttr(fieldStrike, false))
		case n >= 30 && n <= 37:
			c := Color{Mode: ColorNamed, Index: n - 30}
			attrs = append(attrs, SGRAttr{Fg: &c})
		case n == 38:
			if c, adv := p.parseExtendedColor(i); c != nil {
				attrs = append(attrs, SGRAttr{Fg: c})
				i += adv
			}
		case n == 39:
			attrs = append(attrs, SGRAttr{DefaultFg: true})
		case n >= 40 && n <= 47:
			c := Color{Mode: ColorNamed, Index: n - 40}
			attrs = append(attrs, SGRAttr{Bg: &c})
		case n == 48:
			if c, adv := p.parseExtendedColor(i); c != nil {
				attrs = append(attrs, SGRAttr{Bg: c})
				i += adv
			}
		case n == 49:
			attrs = append(attrs, SGRAttr{DefaultBg: true})
		case n >= 90 && n <= 97:
			c := Color{Mode: ColorNamed, Index: n - 90 + 8}
			attrs = append(attrs, SGRAttr{Fg: &c})
		case n >= 100 && n <= 107:
			c := Color{Mode: ColorNamed, Index: n - 100 + 8}
			attrs = append(attrs, SGRAttr{Bg: &c})
		}
		i++
	}
	return attrs
}

// parseExtendedColor parses 38/48 using either ':' sub-params on a single
// slot (38:5:n, 38:2:r:g:b) or separate ';'-joined params (38;5;n,
// 38;2;r;g;b), returning the color and how many extra top-level params it
// consumed when using the ';' form.
func (p *Parser) parseExtendedColor(i int) (*Color, int) {
	sub := p.params[i]
	if len(sub) >= 2 {
		switch sub[1] {
		case 5:
			if len(sub) >= 3 {
				return &Color{Mode: ColorIndexed, Index: sub[2]}, 0
			}
		case 2:
			if len(sub) >= 5 {
				return &Color{Mode: ColorTrueColor, R: uint8(sub[2]), G: uint8(sub[3]), B: uint8(sub[4])}, 0
			}
		}
	}
	// ';'-separated form spans multiple top-level params.
	if i+1 < p.paramCount() {
		mode := p.params[i+1][0]
		switch mode {
		case 5:
			if i+2 < p.paramCount() {
				return &Color{Mode: ColorIndexed, Index: p.params[i+2][0]}, 2
			}
		case 2:
			if i+4 < p.paramCount() {
				return &Color{
					Mode: ColorTrueColor,
					R:    uint8(p.params[i+2][0]),
					G:    uint8(p.params[i+3][0]),
					B:    uint8(p.params[i+4][0]),
				}, 4
			}
		}
	}
	return nil, 0
}

type sgrField int

const (
	fieldBold sgrField = iota
	fieldDim
	fieldItalic
	fieldUnderline
	fieldDoubleUnder
	fieldBlink
	fieldReverse
	fieldStrike
	fieldInvisible
)

func boolAttr(field sgrField, v bool) SGRAttr {
	var a SGRAttr
	p := &v
	switch field {
	case fieldBold:
		a.Bold = p
	case fieldDim:
		a.Dim = p
	case fieldItalic:
		a.Italic = p
	case fieldUnderline:
		a.Underline = p
	case fieldDoubleUnder:
		a.DoubleUnder = p
	case fieldBlink:
		a.Blink = p
	case fieldReverse:
		a.Reverse = p
	case fieldStrike:
		a.Strike = p
	case fieldInvisible:
		a.Invisible = p
	}
	return a
}
