package gpu

import (
	"testing"

	"github.com/sare/sare/internal/render"
	"github.com/sare/sare/internal/screen"
)

type stubFont struct{}

func (stubFont) Metrics() (int, int) { return 8, 16 }
func (stubFont) Glyph(r rune, cellW, cellH int) ([]byte, int, int, bool) {
	return nil, 0, 0, false
}

func TestBackendSatisfiesRendererContract(t *testing.T) {
	var _ render.Renderer = (*Backend)(nil)

	b := New(stubFont{}, render.DefaultConfig(), 10, 4)
	s := screen.New(10, 4, 10)
	f := render.Frame{Screen: s, Cols: 10, Rows: 4}

	if err := b.Present(f, true); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if err := b.Resize(20, 8, 8, 16); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if b.Image().Bounds().Dx() != 20*8 {
		t.Fatalf("unexpected framebuffer width: %d", b.Image().Bounds().Dx())
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
