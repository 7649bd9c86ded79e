package ansi

import "testing"

func collect(data []byte) []Command {
	p := NewParser()
	var cmds []Command
	p.Parse(data, func(c Command) { cmds = append(cmds, c) })
	return cmds
}

func TestParsePrintASCII(t *testing.T) {
	cmds := collect([]byte("hi"))
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Kind != KindPrint || cmds[0].R != 'h' {
		t.Fatalf("cmd0 = %+v", cmds[0])
	}
	if cmds[1].Kind != KindPrint || cmds[1].R != 'i' {
		t.Fatalf("cmd1 = %+v", cmds[1])
	}
}

func TestParseCursorPosition(t *testing.T) {
	cmds := collect([]byte("\x1b[10;20H"))
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	c := cmds[0]
	if c.Kind != KindCursorPosition {
		t.Fatalf("kind = %v", c.Kind)
	}
	if c.Params[0] != 10 || c.Params[1] != 20 {
		t.Fatalf("params = %v", c.Params)
	}
}

func TestParseCursorPositionDefaults(t *testing.T) {
	cmds := collect([]byte("\x1b[H"))
	if len(cmds) != 1 || cmds[0].Params[0] != 1 || cmds[0].Params[1] != 1 {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseSGRNamedColors(t *testing.T) {
	cmds := collect([]byte("\x1b[31;1m"))
	if len(cmds) != 1 || cmds[0].Kind != KindSGR {
		t.Fatalf("cmds = %+v", cmds)
	}
	attrs := cmds[0].SGR
	if len(attrs) != 2 {
		t.Fatalf("attrs = %+v", attrs)
	}
	if attrs[0].Fg == nil || attrs[0].Fg.Mode != ColorNamed || attrs[0].Fg.Index != 1 {
		t.Fatalf("fg attr = %+v", attrs[0])
	}
	if attrs[1].Bold == nil || !*attrs[1].Bold {
		t.Fatalf("bold attr = %+v", attrs[1])
	}
}

func TestParseSGRTrueColor(t *testing.T) {
	cmds := collect([]byte("\x1b[38;2;10;20;30m"))
	if len(cmds) != 1 {
		t.Fatalf("cmds = %+v", cmds)
	}
	attrs := cmds[0].SGR
	if len(attrs) != 1 || attrs[0].Fg == nil {
		t.Fatalf("attrs = %+v", attrs)
	}
	fg := attrs[0].Fg
	if fg.Mode != ColorTrueColor || fg.R != 10 || fg.G != 20 || fg.B != 30 {
		t.Fatalf("fg = %+v", fg)
	}
}

func TestParseSGRTrueColorSubparam(t *testing.T) {
	cmds := collect([]byte("\x1b[38:2:10:20:30m"))
	if len(cmds) != 1 {
		t.Fatalf("cmds = %+v", cmds)
	}
	fg := cmds[0].SGR[0].Fg
	if fg == nil || fg.Mode != ColorTrueColor || fg.R != 10 || fg.G != 20 || fg.B != 30 {
		t.Fatalf("fg = %+v", fg)
	}
}

func TestParseSGRReset(t *testing.T) {
	cmds := collect([]byte("\x1b[m"))
	if len(cmds) != 1 || len(cmds[0].SGR) != 1 || !cmds[0].SGR[0].Reset {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseOSCSetTitle(t *testing.T) {
	cmds := collect([]byte("\x1b]0;hello\x07"))
	if len(cmds) != 1 || cmds[0].Kind != KindSetTitle || cmds[0].Text != "hello" {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseOSCHyperlink(t *testing.T) {
	cmds := collect([]byte("\x1b]8;id=1;https://example.com\x1b\\"))
	if len(cmds) != 1 || cmds[0].Kind != KindHyperlink {
		t.Fatalf("cmds = %+v", cmds)
	}
	if cmds[0].LinkID != "1" || cmds[0].Text != "https://example.com" {
		t.Fatalf("cmd = %+v", cmds[0])
	}
}

func TestParsePrivateModeSet(t *testing.T) {
	cmds := collect([]byte("\x1b[?1049h"))
	if len(cmds) != 1 || cmds[0].Kind != KindSetPrivateMode || cmds[0].Mode != 1049 {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseMultiParamModeSet(t *testing.T) {
	cmds := collect([]byte("\x1b[?1;4h"))
	if len(cmds) != 2 {
		t.Fatalf("cmds = %+v", cmds)
	}
	if cmds[0].Mode != 1 || cmds[1].Mode != 4 {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseUTF8Multibyte(t *testing.T) {
	cmds := collect([]byte("\xe2\x98\x83")) // snowman
	if len(cmds) != 1 || cmds[0].Kind != KindPrint || cmds[0].R != '☃' {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseCANAbortsToGround(t *testing.T) {
	cmds := collect([]byte("\x1b[1;2\x18A"))
	if len(cmds) != 1 || cmds[0].Kind != KindPrint || cmds[0].R != 'A' {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseHardReset(t *testing.T) {
	cmds := collect([]byte("\x1bc"))
	if len(cmds) != 1 || cmds[0].Kind != KindHardReset {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseDeviceAttributes(t *testing.T) {
	cmds := collect([]byte("\x1b[c"))
	if len(cmds) != 1 || cmds[0].Kind != KindDeviceAttributes {
		t.Fatalf("cmds = %+v", cmds)
	}
}

func TestParseShiftOutShiftIn(t *testing.T) {
	cmds := collect([]byte("\x0eA\x0fB"))
	if len(cmds) != 4 {
		t.Fatalf("cmds = %+v", cmds)
	}
	if cmds[0].Kind != KindShiftOut {
		t.Fatalf("cmd0 = %+v, want KindShiftOut", cmds[0])
	}
	if cmds[1].Kind != KindPrint || cmds[1].R != 'A' {
		t.Fatalf("cmd1 = %+v", cmds[1])
	}
	if cmds[2].Kind != KindShiftIn {
		t.Fatalf("cmd2 = %+v, want KindShiftIn", cmds[2])
	}
	if cmds[3].Kind != KindPrint || cmds[3].R != 'B' {
		t.Fatalf("cmd3 = %+v", cmds[3])
	}
}
