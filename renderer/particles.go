// Package renderer draws the simulation with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleRenderer draws particles as filled discs. It implements
// systems.Sink and must be used between BeginDrawing and EndDrawing.
type ParticleRenderer struct {
	// MinRadius keeps nearly shrunk particles visible as a dot.
	MinRadius float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// DrawParticle draws one disc.
func (r *ParticleRenderer) DrawParticle(pos r2.Vec, size float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	radius := float32(size)
	if radius < r.MinRadius {
		radius = r.MinRadius
	}
	rl.DrawCircleV(
		rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)},
		radius,
		rl.Color{R: c.R, G: c.G, B: c.B, A: c.A},
	)
}
