// Package gpu implements the hardware-accelerated Renderer backend. No GPU
// binding library (OpenGL/Vulkan/Metal/WebGPU) is available in this
// build's dependency set, so Backend wraps the same atlas/pool/line-cache/
// rasterization path internal/render/cpu uses and presents it behind the
// same contract a real GPU surface would occupy. DeviceLost never fires
// from this backend; it exists so callers written against a future
// hardware path already handle the recovery case.
package gpu

import (
	"image"

	"github.com/sare/sare/internal/render"
	"github.com/sare/sare/internal/render/cpu"
)

// Backend is the GPU-shaped entry point: a thin wrapper around the CPU
// rasterizer that presents frames onto its software framebuffer instead
// of a hardware surface. Swapping in a real GPU implementation later only
// requires satisfying render.Renderer; callers never depend on Backend's
// concrete type.
type Backend struct {
	soft *cpu.Renderer
}

// New creates a GPU-shaped backend. cfg.GPUAcceleration is honored by
// callers choosing between gpu.New and cpu.New; Backend itself always
// renders in software since no hardware surface is available here.
func New(font render.FontSource, cfg render.Config, cols, rows int) *Backend {
	return &Backend{soft: cpu.New(font, cfg, cols, rows)}
}

func (b *Backend) Present(f render.Frame, forceFull bool) error {
	return b.soft.Present(f, forceFull)
}

func (b *Backend) Resize(cols, rows, cellW, cellH int) error {
	return b.soft.Resize(cols, rows, cellW, cellH)
}

func (b *Backend) Close() error { return b.soft.Close() }

// Image exposes the underlying software framebuffer, mirroring
// cpu.Renderer.Image for callers that need to blit the presented frame
// onto a window surface.
func (b *Backend) Image() *image.RGBA { return b.soft.Image() }
