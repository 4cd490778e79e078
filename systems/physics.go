// Package systems contains the particle engine and the per-frame systems
// that drive it.
package systems

import (
	"image/color"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// Bounds represents the simulation bounds. A non-positive extent disables
// collision on that axis.
type Bounds struct {
	Width, Height float64
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}

// Physics holds the integrator constants shared by every particle.
type Physics struct {
	Gravity     float64
	FadeWindow  float64
	AlphaScale  float64
	ShrinkRate  float64
	Restitution Restitution
}

// DefaultPhysics returns the canonical constants: gravity 50, fade window 5,
// shrink 0.4 and a fixed 1.5x bounce.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:     50,
		FadeWindow:  5,
		AlphaScale:  255,
		ShrinkRate:  0.4,
		Restitution: FixedElastic{Coeff: 1.5},
	}
}

// Template is the state a particle spawns with.
type Template struct {
	Lifespan float64
	Size     float64
	Color    color.RGBA
}

// DefaultTemplate returns the canonical spawn state.
func DefaultTemplate() Template {
	return Template{
		Lifespan: 11,
		Size:     7,
		Color:    color.RGBA{R: 255, G: 0, B: 255, A: 255},
	}
}

// NewPhysics builds integrator constants from config. rng feeds the
// randomized restitution policy and is unused by the fixed one.
func NewPhysics(cfg *config.Config, rng *rand.Rand) Physics {
	return Physics{
		Gravity:     cfg.Physics.Gravity,
		FadeWindow:  cfg.Physics.FadeWindow,
		AlphaScale:  cfg.Physics.AlphaScale,
		ShrinkRate:  cfg.Physics.ShrinkRate,
		Restitution: NewRestitution(cfg.Restitution, rng),
	}
}

// NewTemplate builds the spawn state from config.
func NewTemplate(cfg *config.Config) Template {
	c := cfg.Particle.Color
	return Template{
		Lifespan: cfg.Particle.Lifespan,
		Size:     cfg.Particle.Size,
		Color:    color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A},
	}
}
