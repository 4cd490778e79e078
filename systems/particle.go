package systems

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Edge identifies a boundary of the simulation rectangle. A particle's tag is
// the last edge it struck.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// EdgeSet is a bitmask of edges struck during one step.
type EdgeSet uint8

// Has reports whether e fired.
func (s EdgeSet) Has(e Edge) bool {
	return s&(1<<e) != 0
}

func (s EdgeSet) with(e Edge) EdgeSet {
	return s | 1<<e
}

// Tag colours. RGB only; alpha comes from the particle's remaining lifespan.
var (
	ColorLeft   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	ColorRight  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	ColorTop    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorBottom = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Particle is a single point mass with a finite lifespan.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	Tag      Edge    // Last boundary struck
	Lifespan float64 // Seconds remaining, may go negative before cull
	Size     float64 // Radius, never negative
}

// Update advances the particle by dt seconds and returns the edges struck.
// dt must be non-negative. A zero step leaves the particle untouched, and a
// dead particle is never mutated again.
//
// The four boundary checks run unconditionally in the order left, right,
// top, bottom, so on a corner hit the later check owns the tag.
func (p *Particle) Update(dt float64, b Bounds, wind r2.Vec, ph *Physics) EdgeSet {
	if dt == 0 || p.IsDead() {
		return 0
	}

	p.Velocity = r2.Add(p.Velocity, r2.Scale(dt, wind))
	p.Velocity.Y += ph.Gravity * dt
	p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))

	var hits EdgeSet
	if b.Width > 0 {
		if p.Position.X <= 0 {
			p.Position.X = 0
			p.Velocity = ph.Restitution.Bounce(p.Velocity, EdgeLeft)
			p.Tag = EdgeLeft
			hits = hits.with(EdgeLeft)
		}
		if p.Position.X+p.Size >= b.Width {
			p.Position.X = b.Width - p.Size
			p.Velocity = ph.Restitution.Bounce(p.Velocity, EdgeRight)
			p.Tag = EdgeRight
			hits = hits.with(EdgeRight)
		}
	}
	if b.Height > 0 {
		if p.Position.Y <= 0 {
			p.Position.Y = 0
			p.Velocity = ph.Restitution.Bounce(p.Velocity, EdgeTop)
			p.Tag = EdgeTop
			hits = hits.with(EdgeTop)
		}
		if p.Position.Y+p.Size >= b.Height {
			p.Position.Y = b.Height - p.Size
			p.Velocity = ph.Restitution.Bounce(p.Velocity, EdgeBottom)
			p.Tag = EdgeBottom
			hits = hits.with(EdgeBottom)
		}
	}

	p.Lifespan -= dt
	p.Size = math.Max(0, p.Size-ph.ShrinkRate*dt)

	return hits
}

// IsDead reports whether the particle has run out of lifespan.
func (p *Particle) IsDead() bool {
	return p.Lifespan <= 0
}

// Alpha returns the fade level for the remaining lifespan. It reaches zero
// at lifespan 0, which lies fadeWindow seconds after it starts dropping; a
// particle whose lifespan exceeds the fade window stays fully opaque.
func (p *Particle) Alpha(ph *Physics) uint8 {
	a := p.Lifespan / ph.FadeWindow * ph.AlphaScale
	if a <= 0 {
		return 0
	}
	if a >= 255 {
		return 255
	}
	return uint8(a)
}

// Color combines the tag colour (or the spawn colour when untagged) with
// the fade alpha.
func (p *Particle) Color(ph *Physics, spawn color.RGBA) color.RGBA {
	var c color.RGBA
	switch p.Tag {
	case EdgeLeft:
		c = ColorLeft
	case EdgeRight:
		c = ColorRight
	case EdgeTop:
		c = ColorTop
	case EdgeBottom:
		c = ColorBottom
	default:
		c = spawn
	}
	c.A = p.Alpha(ph)
	return c
}
