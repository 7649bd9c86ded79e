package ansi

import "unicode/utf8"

// Parser is a VT100/VT220/VT320-compatible byte-stream state machine. It
// consumes raw bytes and emits a lazy stream of semantic Commands via the
// sink passed to Parse. Every byte fed to Parse is consumed exactly once;
// unknown finals are dropped and the parser returns to Ground — it never
// stalls on malformed input.
type Parser struct {
	state state

	params     [][]int // one slice of ints per parameter position (sub-params)
	curParam   int
	haveDigits bool
	private    byte // '?', '<', '=', '>' prefix seen on CSI entry, else 0

	intermediates []byte

	strBuf []byte // OSC / DCS / SOS-PM-APC accumulation

	utf8Buf  [4]byte
	utf8Need int
	utf8Got  int

	dcsFinal byte
}

// NewParser returns a parser starting in Ground state.
func NewParser() *Parser {
	p := &Parser{}
	p.resetParams()
	return p
}

func (p *Parser) resetParams() {
	p.params = p.params[:0]
	p.curParam = 0
	p.haveDigits = false
	p.private = 0
	p.intermediates = p.intermediates[:0]
}

// Reset returns the parser to Ground, as on a hard reset (RIS) or on
// entering/leaving the alternate screen.
func (p *Parser) Reset() {
	p.state = stateGround
	p.resetParams()
	p.strBuf = p.strBuf[:0]
	p.utf8Need = 0
	p.utf8Got = 0
}

// Parse feeds data through the state machine, invoking emit for every
// semantic command produced. It always consumes the entire slice.
func (p *Parser) Parse(data []byte, emit func(Command)) {
	for _, b := range data {
		p.step(b, emit)
	}
}

func (p *Parser) step(b byte, emit func(Command)) {
	// CAN / SUB abort to Ground from any state, also discarding a
	// partially collected UTF-8 sequence.
	if b == cCAN || b == cSUB {
		p.Reset()
		return
	}

	switch p.state {
	case stateGround:
		p.ground(b, emit)
	case stateEscape:
		p.escape(b, emit)
	case stateEscapeIntermediate:
		p.escapeIntermediate(b, emit)
	case stateCSIEntry:
		p.csiEntry(b, emit)
	case stateCSIParam:
		p.csiParam(b, emit)
	case stateCSIIntermediate:
		p.csiIntermediate(b, emit)
	case stateCSIIgnore:
		p.csiIgnore(b)
	case stateOSCString:
		p.oscString(b, emit)
	case stateDCSEntry:
		p.dcsEntry(b)
	case stateDCSParam:
		p.dcsParam(b)
	case stateDCSIntermediate:
		p.dcsIntermediate(b)
	case stateDCSPassthrough:
		p.dcsPassthrough(b)
	case stateDCSIgnore:
		p.dcsIgnore(b)
	case stateSOSPMAPCString:
		p.sosPmApcString(b)
	}
}

func (p *Parser) ground(b byte, emit func(Command)) {
	switch {
	case b == cESC:
		p.state = stateEscape
		p.resetParams()
	case b == cSO:
		emit(Command{Kind: KindShiftOut})
	case b == cSI:
		emit(Command{Kind: KindShiftIn})
	case isC0Execute(b):
		emit(Command{Kind: KindExecute, R: rune(b)})
	case b == cDEL:
		// ignored
	case b < 0x80:
		emit(Command{Kind: KindPrint, R: rune(b)})
	default:
		p.printUTF8(b, emit)
	}
}

// printUTF8 accumulates continuation bytes of a multi-byte UTF-8 sequence
// and emits a single Print command once the grapheme's scalar is complete.
// Malformed sequences degrade to the replacement character.
func (p *Parser) printUTF8(b byte, emit func(Command)) {
	if p.utf8Need == 0 {
		switch {
		case b&0xE0 == 0xC0:
			p.utf8Need = 2
		case b&0xF0 == 0xE0:
			p.utf8Need = 3
		case b&0xF8 == 0xF0:
			p.utf8Need = 4
		default:
			emit(Command{Kind: KindPrint, R: utf8.RuneError})
			return
		}
		p.utf8Got = 0
		p.utf8Buf[p.utf8Got] = b
		p.utf8Got++
		return
	}
	p.utf8Buf[p.utf8Got] = b
	p.utf8Got++
	if p.utf8Got >= p.utf8Need {
		r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Got])
		emit(Command{Kind: KindPrint, R: r})
		p.utf8Need = 0
		p.utf8Got = 0
	}
}

func (p *Parser) escape(b byte, emit func(Command)) {
	switch {
	case b == '[':
		p.state = stateCSIEntry
		p.resetParams()
	case b == ']':
		p.state = stateOSCString
		p.strBuf = p.strBuf[:0]
	case b == 'P':
		p.state = stateDCSEntry
		p.resetParams()
	case b == 'X' || b == '^' || b == '_':
		p.state = stateSOSPMAPCString
		p.strBuf = p.strBuf[:0]
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case b == 'c':
		p.state = stateGround
		emit(Command{Kind: KindHardReset})
	case b == 'D':
		p.state = stateGround
		emit(Command{Kind: KindIndex})
	case b == 'M':
		p.state = stateGround
		emit(Command{Kind: KindReverseIndex})
	case b == 'E':
		p.state = stateGround
		emit(Command{Kind: KindNextLineEsc})
	case b == 'H':
		p.state = stateGround
		emit(Command{Kind: KindTabSet})
	case b == '7':
		p.state = stateGround
		emit(Command{Kind: KindSaveCursor})
	case b == '8':
		p.state = stateGround
		emit(Command{Kind: KindRestoreCursor})
	case b >= 0x30 && b <= 0x7E:
		// Other single-final escapes (SCS designators handled with their
		// preceding intermediate, charset tables, etc.) are consumed and
		// dropped rather than stalling the parser.
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) escapeIntermediate(b byte, emit func(Command)) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		if len(p.intermediates) < maxIntermediate {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x30 && b <= 0x7E:
		p.state = stateGround
		p.dispatchEscapeWithIntermediate(b, emit)
	default:
		p.state = stateGround
	}
}

func (p *Parser) dispatchEscapeWithIntermediate(final byte, emit func(Command)) {
	if len(p.intermediates) == 1 {
		switch p.intermediates[0] {
		case '(', ')', '*', '+':
			idx := map[byte]int{'(': 0, ')': 1, '*': 2, '+': 3}[p.intermediates[0]]
			emit(Command{Kind: KindDesignateCharset, CharsetIndex: idx, Charset: final})
			return
		}
	}
}

func (p *Parser) csiEntry(b byte, emit func(Command)) {
	switch {
	case b >= '0' && b <= '9':
		p.state = stateCSIParam
		p.csiParam(b, emit)
	case b == ';' || b == ':':
		p.state = stateCSIParam
		p.csiParam(b, emit)
	case b == '?' || b == '<' || b == '=' || b == '>':
		p.private = b
		p.state = stateCSIParam
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.state = stateGround
		p.dispatchCSI(b, emit)
	case isC0Execute(b):
		emit(Command{Kind: KindExecute, R: rune(b)})
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) ensureCurParam() {
	for len(p.params) <= p.curParam {
		p.params = append(p.params, []int{0})
	}
}

func (p *Parser) csiParam(b byte, emit func(Command)) {
	switch {
	case b >= '0' && b <= '9':
		p.ensureCurParam()
		last := len(p.params[p.curParam]) - 1
		p.params[p.curParam][last] = p.params[p.curParam][last]*10 + int(b-'0')
		p.haveDigits = true
	case b == ':':
		p.ensureCurParam()
		p.params[p.curParam] = append(p.params[p.curParam], 0)
	case b == ';':
		p.curParam++
		if p.curParam >= maxParams {
			p.state = stateCSIIgnore
			return
		}
		p.haveDigits = false
	case b == '?' || b == '<' || b == '=' || b == '>':
		p.private = b
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.state = stateGround
		p.dispatchCSI(b, emit)
	case isC0Execute(b):
		emit(Command{Kind: KindExecute, R: rune(b)})
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) csiIntermediate(b byte, emit func(Command)) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		if len(p.intermediates) < maxIntermediate {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x40 && b <= 0x7E:
		p.state = stateGround
		p.dispatchCSI(b, emit)
	case isC0Execute(b):
		emit(Command{Kind: KindExecute, R: rune(b)})
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) csiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7E {
		p.state = stateGround
	}
}

// param returns the first sub-param at position i, defaulting to def when
// absent or zero-valued where a command defines zero as "use default".
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || len(p.params[i]) == 0 {
		return def
	}
	if p.params[i][0] == 0 {
		return def
	}
	return p.params[i][0]
}

// paramRaw returns the first sub-param at position i without substituting
// a default, or -1 if absent, so an explicit 0 can be told apart from a
// missing parameter.
func (p *Parser) paramRaw(i int) int {
	if i >= len(p.params) || len(p.params[i]) == 0 {
		return -1
	}
	return p.params[i][0]
}

func (p *Parser) paramCount() int { return len(p.params) }

func (p *Parser) oscString(b byte, emit func(Command)) {
	switch b {
	case cBEL:
		p.state = stateGround
		p.emitOSC(emit)
	case cESC:
		// Tentatively note ST start; the following '\' confirms it. We
		// detect the two-byte ST sequence by checking for '\' immediately.
		p.strBuf = append(p.strBuf, b)
	case '\\':
		if n := len(p.strBuf); n > 0 && p.strBuf[n-1] == cESC {
			p.strBuf = p.strBuf[:n-1]
			p.state = stateGround
			p.emitOSC(emit)
			return
		}
		p.strBuf = append(p.strBuf, b)
	default:
		p.strBuf = append(p.strBuf, b)
	}
}

func (p *Parser) emitOSC(emit func(Command)) {
	s := string(p.strBuf)
	p.strBuf = p.strBuf[:0]
	num, rest := splitOSC(s)
	cmd := Command{Kind: KindSetTitle, OSC: num, Text: rest}
	switch num {
	case 0, 1, 2:
		cmd.Kind = KindSetTitle
	case 8:
		cmd.Kind = KindHyperlink
		id, uri := splitHyperlinkParams(rest)
		cmd.LinkID = id
		cmd.Text = uri
	case 10, 11, 12, 4, 104:
		cmd.Kind = KindColorQuery
	case 52:
		cmd.Kind = KindClipboard
	default:
		cmd.Kind = KindUnknown
	}
	emit(cmd)
}

func splitOSC(s string) (int, string) {
	i := 0
	n := 0
	has := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		has = true
		i++
	}
	if !has {
		return -1, s
	}
	if i < len(s) && s[i] == ';' {
		i++
	}
	return n, s[i:]
}

// splitHyperlinkParams splits "id=xxx:...;URI" as used by OSC 8.
func splitHyperlinkParams(s string) (id, uri string) {
	semi := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return "", s
	}
	params := s[:semi]
	uri = s[semi+1:]
	const prefix = "id="
	for _, kv := range splitSemicolonless(params, ':') {
		if len(kv) > len(prefix) && kv[:len(prefix)] == prefix {
			id = kv[len(prefix):]
		}
	}
	return id, uri
}

func splitSemicolonless(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func (p *Parser) dcsEntry(b byte) {
	switch {
	case b >= '0' && b <= '9' || b == ';' || b == ':':
		p.state = stateDCSParam
		p.dcsParam(b)
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateDCSIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.dcsFinal = b
		p.state = stateDCSPassthrough
		p.strBuf = p.strBuf[:0]
	default:
		p.state = stateDCSIgnore
	}
}

func (p *Parser) dcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.ensureCurParam()
		last := len(p.params[p.curParam]) - 1
		p.params[p.curParam][last] = p.params[p.curParam][last]*10 + int(b-'0')
	case b == ':':
		p.ensureCurParam()
		p.params[p.curParam] = append(p.params[p.curParam], 0)
	case b == ';':
		p.curParam++
	case b >= 0x20 && b <= 0x2F:
		p.intermediates = append(p.intermediates, b)
		p.state = stateDCSIntermediate
	case b >= 0x40 && b <= 0x7E:
		p.dcsFinal = b
		p.state = stateDCSPassthrough
		p.strBuf = p.strBuf[:0]
	default:
		p.state = stateDCSIgnore
	}
}

func (p *Parser) dcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		if len(p.intermediates) < maxIntermediate {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x40 && b <= 0x7E:
		p.dcsFinal = b
		p.state = stateDCSPassthrough
		p.strBuf = p.strBuf[:0]
	default:
		p.state = stateDCSIgnore
	}
}

func (p *Parser) dcsPassthrough(b byte) {
	if b == cESC {
		p.strBuf = append(p.strBuf, b)
		return
	}
	if b == '\\' {
		if n := len(p.strBuf); n > 0 && p.strBuf[n-1] == cESC {
			p.state = stateGround
			p.strBuf = p.strBuf[:0]
			return
		}
	}
	p.strBuf = append(p.strBuf, b)
}

func (p *Parser) dcsIgnore(b byte) {
	if b == cESC {
		p.strBuf = append(p.strBuf, b)
		return
	}
	if b == '\\' {
		if n := len(p.strBuf); n > 0 && p.strBuf[n-1] == cESC {
			p.state = stateGround
			p.strBuf = p.strBuf[:0]
			return
		}
	}
}

func (p *Parser) sosPmApcString(b byte) {
	if b == cESC {
		p.strBuf = append(p.strBuf, b)
		return
	}
	if b == '\\' {
		if n := len(p.strBuf); n > 0 && p.strBuf[n-1] == cESC {
			p.state = stateGround
			p.strBuf = p.strBuf[:0]
			return
		}
	}
	p.strBuf = append(p.strBuf, b)
}
