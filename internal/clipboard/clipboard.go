// Package clipboard is a narrow boundary around system clipboard access:
// the core only ever needs to read and write one register's worth of text
// (an OSC 52 payload), so this package exposes exactly that and nothing
// more.
package clipboard

import (
	"github.com/zyedidia/clipper"
)

// Clipboard reads and writes the system clipboard's default register.
// The core depends on this interface, never on clipper directly, so a
// headless build can substitute a no-op implementation.
type Clipboard interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// systemClipboard adapts clipper.Clipboard to the narrow Clipboard
// interface, fixed to the unnamed register OSC 52 targets.
type systemClipboard struct {
	c clipper.Clipboard
}

// New starts the clipper background manager and returns a Clipboard
// backed by it. Callers that never need real clipboard access (headless
// test runs, CI) should use NoOp instead of calling New.
func New() (Clipboard, error) {
	c, err := clipper.GetClipboard(clipper.Managers...)
	if err != nil {
		return nil, err
	}
	return &systemClipboard{c: c}, nil
}

func (s *systemClipboard) Read() ([]byte, error) {
	return s.c.Read(clipper.RegClipboard)
}

func (s *systemClipboard) Write(data []byte) error {
	return s.c.Write(data, clipper.RegClipboard)
}

// NoOp is a Clipboard that discards writes and always reads empty,
// for builds where no system clipboard is reachable (headless CI,
// tests).
type NoOp struct{}

func (NoOp) Read() ([]byte, error)   { return nil, nil }
func (NoOp) Write(data []byte) error { return nil }
